// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package poll provides a bounded-time polling primitive. A timeout is an
// ordinary outcome of a poll, not an error.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/merlin-qa/framefinder/shared"
	"k8s.io/utils/clock"
)

// DefaultInterval is the delay between attempts when none is configured.
const DefaultInterval = 500 * time.Millisecond

// ErrNotYetReady marks a predicate error as transient: the attempt counts as
// "not truthy yet" and polling continues. Any other predicate error aborts the
// poll.
var ErrNotYetReady = errors.New("not yet ready")

// IsTransient reports whether err only means "try again".
func IsTransient(err error) bool {
	return errors.Is(err, ErrNotYetReady)
}

// Clock is the subset of k8s.io/utils/clock.Clock used by the poller.
type Clock interface {
	Now() time.Time
	Since(time.Time) time.Duration
	After(time.Duration) <-chan time.Time
}

// Outcome is the result of a poll. Exactly one of Succeeded() and TimedOut
// holds for a poll that returned a nil error.
type Outcome[T any] struct {
	Value    T
	Attempts int
	Elapsed  time.Duration
	TimedOut bool
	// LastErr is the last transient error seen, kept for diagnostics.
	LastErr error
}

// Succeeded reports whether the predicate became truthy before the deadline.
func (o Outcome[T]) Succeeded() bool {
	return o.Attempts > 0 && !o.TimedOut
}

// Predicate is evaluated once per attempt. It returns the value and whether
// it is "truthy". Errors wrapping ErrNotYetReady are treated as not truthy.
type Predicate[T any] func(ctx context.Context) (T, bool, error)

// Poller evaluates predicates until they succeed or a deadline passes.
// A Poller holds no per-poll state and may be shared.
type Poller struct {
	clock    Clock
	schedule Schedule
	name     string
	logger   shared.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock injects the clock, e.g. a fake clock in tests.
func WithClock(c Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// WithInterval sets the fixed delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.schedule.Interval = d }
}

// WithBackoff grows the delay by factor after each attempt, up to max.
func WithBackoff(factor float64, max time.Duration) Option {
	return func(p *Poller) {
		p.schedule.Factor = factor
		p.schedule.MaxInterval = max
	}
}

// WithName labels the poller in logs and metrics.
func WithName(name string) Option {
	return func(p *Poller) { p.name = name }
}

// WithLogger sets the logger used for per-attempt debug output.
func WithLogger(l shared.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// NewPoller creates a Poller using the real clock and DefaultInterval unless
// overridden.
func NewPoller(opts ...Option) *Poller {
	p := &Poller{
		clock:    clock.RealClock{},
		schedule: Schedule{Interval: DefaultInterval, Factor: 1},
		name:     "default",
		logger:   shared.NewNilLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// With returns a copy of p with extra options applied.
func (p *Poller) With(opts ...Option) *Poller {
	cp := *p
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Name returns the poller's label.
func (p *Poller) Name() string {
	return p.name
}

// Clock returns the poller's clock.
func (p *Poller) Clock() Clock {
	return p.clock
}

var defaultPoller = NewPoller()

// Poll invokes pred until it is truthy or timeout has elapsed since the call
// started. The predicate is always evaluated at least once, even for a
// non-positive timeout. Between attempts the caller is suspended for
// min(schedule delay, remaining budget); a truthy attempt returns at once.
//
// The returned error is non-nil only when pred fails with a non-transient
// error or ctx is done.
func Poll[T any](ctx context.Context, p *Poller, timeout time.Duration, pred Predicate[T]) (Outcome[T], error) {
	if p == nil {
		p = defaultPoller
	}
	var out Outcome[T]
	start := p.clock.Now()
	for {
		out.Attempts++
		v, ok, err := pred(ctx)
		out.Elapsed = p.clock.Since(start)
		attempts.WithLabelValues(p.name).Inc()
		switch {
		case err != nil && !IsTransient(err):
			observe(p.name, outcomeError, out.Elapsed)
			return out, err
		case err != nil:
			out.LastErr = err
			p.logger.Debugf("%s: attempt %d not ready: %v", p.name, out.Attempts, err)
		case ok:
			out.Value = v
			observe(p.name, outcomeSucceeded, out.Elapsed)
			return out, nil
		}

		delay := p.schedule.Delay(out.Attempts, out.Elapsed, timeout)
		if delay <= 0 {
			out.TimedOut = true
			observe(p.name, outcomeTimedOut, out.Elapsed)
			return out, nil
		}
		select {
		case <-ctx.Done():
			observe(p.name, outcomeError, p.clock.Since(start))
			return out, ctx.Err()
		case <-p.clock.After(delay):
		}
	}
}

// Until is Poll for plain conditions.
func Until(ctx context.Context, p *Poller, timeout time.Duration, cond func(context.Context) (bool, error)) (Outcome[bool], error) {
	return Poll(ctx, p, timeout, func(ctx context.Context) (bool, bool, error) {
		ok, err := cond(ctx)
		return ok, ok, err
	})
}
