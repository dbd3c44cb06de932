// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package locate

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/shared"
)

// WindowLocator finds a top-level window by title or address.
type WindowLocator struct {
	poller *poll.Poller
}

// NewWindowLocator creates a WindowLocator polling with p (nil for defaults).
func NewWindowLocator(p *poll.Poller) *WindowLocator {
	if p == nil {
		p = poll.NewPoller()
	}
	return &WindowLocator{poller: p.With(poll.WithName("window"))}
}

// FindWindowContaining is FindWindow with a case-insensitive substring match.
func (l *WindowLocator) FindWindowContaining(ctx context.Context, b browsing.Provider, from browsing.Context, text string, timeout time.Duration) Result {
	return l.FindWindow(ctx, b, from, Containing(text), timeout)
}

// FindWindow enumerates the open windows once per attempt and activates the
// first one, in the driver's (unstable) order, that m matches. Zero open
// windows is not an error; the shell may still be opening them.
//
// Probing may switch the driver through every window. When the search is
// exhausted and from names a window, from is re-activated; otherwise the
// active window is undefined and Result.Context is zero.
func (l *WindowLocator) FindWindow(ctx context.Context, b browsing.Provider, from browsing.Context, m Match, timeout time.Duration) Result {
	logger := shared.GetLogger(ctx)

	out, err := poll.Poll(ctx, l.poller, timeout, func(ctx context.Context) (browsing.Window, bool, error) {
		windows, err := b.Windows()
		if err != nil {
			return browsing.Window{}, false, err
		}
		logger.Debugf("Probing %d window(s) for a window %s", len(windows), m)
		seen := mapset.NewSet()
		for _, w := range windows {
			if !seen.Add(w.Handle) || !m.Matches(w) {
				continue
			}
			if err := b.SwitchToWindow(w.Handle); err != nil {
				if poll.IsTransient(err) {
					logger.Warningf("Window %s matched but went away: %v", w.Handle, err)
					continue
				}
				return browsing.Window{}, false, err
			}
			return w, true, nil
		}
		return browsing.Window{}, false, nil
	})

	res := Result{Attempts: out.Attempts, Elapsed: out.Elapsed}
	switch {
	case err != nil:
		res.Status = StatusFailed
		res.Err = fmt.Errorf("finding window %s: %w", m, err)
		logger.Errorf("%v", res.Err)
	case out.Succeeded():
		res.Status = StatusFound
		res.Window = out.Value
		res.Context = browsing.Context{Window: out.Value.Handle}
		logger.Infof("Found window %s: %q", m, out.Value.Title)
	default:
		res.Status = StatusNotFound
		logger.Warningf("Window %s not found after %s", m, timeout)
		if from.Window != "" {
			if err := browsing.Activate(b, from); err != nil {
				logger.Warningf("Could not restore %s after failed window search: %v", from, err)
			} else {
				res.Context = from
			}
		}
	}
	return res
}
