// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package locate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/shared"
)

// Condition is the readiness state waited for.
type Condition string

// Readiness conditions.
const (
	Exists    Condition = "exists"
	Visible   Condition = "visible"
	Clickable Condition = "clickable"
)

// ErrReadinessTimeout matches every *ReadinessTimeoutError.
var ErrReadinessTimeout = errors.New("readiness timeout")

// ReadinessTimeoutError reports an element that did not reach a condition in
// time.
type ReadinessTimeoutError struct {
	Selector  string
	Condition Condition
	Timeout   time.Duration
	Attempts  int
	// LastErr is the last transient error seen while polling, if any.
	LastErr error
}

func (e *ReadinessTimeoutError) Error() string {
	msg := fmt.Sprintf("element %s not %s after %s (%d attempt(s))", e.Selector, e.Condition, e.Timeout, e.Attempts)
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrReadinessTimeout) hold.
func (e *ReadinessTimeoutError) Is(target error) bool {
	return target == ErrReadinessTimeout
}

// Prober is what readiness waits need from a driver.
type Prober interface {
	ElementExists(selector string) (bool, error)
	browsing.Inspector
}

// Readiness waits for elements in the active context.
type Readiness struct {
	poller *poll.Poller
}

// NewReadiness creates a Readiness polling with p (nil for defaults).
func NewReadiness(p *poll.Poller) *Readiness {
	if p == nil {
		p = poll.NewPoller()
	}
	return &Readiness{poller: p.With(poll.WithName("element"))}
}

// WaitExists waits until selector matches an element.
func (r *Readiness) WaitExists(ctx context.Context, b Prober, selector string, timeout time.Duration) error {
	return r.wait(ctx, selector, Exists, timeout, func() (bool, error) {
		return b.ElementExists(selector)
	})
}

// WaitVisible waits until selector matches a displayed element.
func (r *Readiness) WaitVisible(ctx context.Context, b Prober, selector string, timeout time.Duration) error {
	return r.wait(ctx, selector, Visible, timeout, func() (bool, error) {
		return b.ElementDisplayed(selector)
	})
}

// WaitClickable waits until selector matches a displayed, enabled element.
func (r *Readiness) WaitClickable(ctx context.Context, b Prober, selector string, timeout time.Duration) error {
	return r.wait(ctx, selector, Clickable, timeout, func() (bool, error) {
		displayed, err := b.ElementDisplayed(selector)
		if err != nil || !displayed {
			return false, err
		}
		return b.ElementEnabled(selector)
	})
}

// Wait dispatches on c.
func (r *Readiness) Wait(ctx context.Context, b Prober, selector string, c Condition, timeout time.Duration) error {
	switch c {
	case Exists:
		return r.WaitExists(ctx, b, selector, timeout)
	case Visible:
		return r.WaitVisible(ctx, b, selector, timeout)
	case Clickable:
		return r.WaitClickable(ctx, b, selector, timeout)
	}
	return fmt.Errorf("unknown readiness condition %q", c)
}

func (r *Readiness) wait(ctx context.Context, selector string, c Condition, timeout time.Duration, check func() (bool, error)) error {
	out, err := poll.Until(ctx, r.poller, timeout, func(context.Context) (bool, error) {
		return check()
	})
	if err != nil {
		return fmt.Errorf("waiting for %s to be %s: %w", selector, c, err)
	}
	if out.TimedOut {
		terr := &ReadinessTimeoutError{
			Selector:  selector,
			Condition: c,
			Timeout:   timeout,
			Attempts:  out.Attempts,
			LastErr:   out.LastErr,
		}
		shared.GetLogger(ctx).Warningf("%v", terr)
		return terr
	}
	shared.GetLogger(ctx).Debugf("Element %s is %s after %s", selector, c, out.Elapsed)
	return nil
}
