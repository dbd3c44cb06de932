// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package locate

import (
	"context"
	"fmt"
	"time"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/shared"
)

// DefaultMaxFrameDepth bounds frame searches when no depth is configured.
const DefaultMaxFrameDepth = 3

// FrameLocator finds the frame, within one window, that contains an element.
type FrameLocator struct {
	poller *poll.Poller
}

// NewFrameLocator creates a FrameLocator; p is used by WaitForFrameWith.
func NewFrameLocator(p *poll.Poller) *FrameLocator {
	if p == nil {
		p = poll.NewPoller()
	}
	return &FrameLocator{poller: p.With(poll.WithName("frame"))}
}

// FindFrameWith activates the context in from's window that contains an
// element matching selector, searching frames up to maxDepth levels below
// the top-level document.
//
// from is checked first, then the top-level document, then frames depth
// first. After each frame's subtree is exhausted the search switches back to
// that frame's parent, so a failed search leaves the top-level document
// active. Frames that fail transiently are skipped and reported in
// Result.Skipped.
func (l *FrameLocator) FindFrameWith(ctx context.Context, b browsing.Provider, from browsing.Context, selector string, maxDepth int) Result {
	logger := shared.GetLogger(ctx)
	if maxDepth < 0 {
		maxDepth = 0
	}
	s := &frameSearch{b: b, selector: selector, maxDepth: maxDepth, logger: logger}
	top := from.TopLevel()

	found, ok, err := s.search(ctx, from)
	res := Result{Attempts: 1, Skipped: shared.NewMultiError(s.skipped, "searching frames for "+selector)}
	switch {
	case err != nil && !poll.IsTransient(err):
		res.Status = StatusFailed
		res.Err = fmt.Errorf("finding frame with %s: %w", selector, err)
		logger.Errorf("%v", res.Err)
		if rerr := browsing.Activate(b, top); rerr != nil {
			logger.Warningf("Could not restore %s: %v", top, rerr)
		} else {
			res.Context = top
		}
	case ok:
		res.Status = StatusFound
		res.Context = found
		logger.Infof("Found %s in %s", selector, found)
	default:
		if err != nil {
			// The window itself went away; nothing left to search.
			res.Skipped = shared.NewMultiError(append(s.skipped, err), "searching frames for "+selector)
		}
		res.Status = StatusNotFound
		res.Context = top
		logger.Warningf("%s not found within %d frame level(s) of %s", selector, maxDepth, top)
	}
	return res
}

// WaitForFrameWith repeats FindFrameWith until it succeeds or timeout
// elapses. Transient failures of a whole search are retried.
func (l *FrameLocator) WaitForFrameWith(ctx context.Context, b browsing.Provider, from browsing.Context, selector string, maxDepth int, timeout time.Duration) Result {
	var last Result
	out, err := poll.Poll(ctx, l.poller, timeout, func(ctx context.Context) (Result, bool, error) {
		last = l.FindFrameWith(ctx, b, from, selector, maxDepth)
		if last.Status == StatusFailed {
			return last, false, last.Err
		}
		return last, last.Found(), nil
	})
	last.Attempts, last.Elapsed = out.Attempts, out.Elapsed
	if err != nil && last.Status != StatusFailed {
		last.Status = StatusFailed
		last.Err = err
	}
	return last
}

// frameSearch is the state of one FindFrameWith call; it is never shared.
type frameSearch struct {
	b        browsing.Provider
	selector string
	maxDepth int
	logger   shared.Logger
	skipped  []error
}

func (s *frameSearch) skip(at browsing.Context, err error) {
	s.logger.Warningf("Skipping %s: %v", at, err)
	s.skipped = append(s.skipped, fmt.Errorf("%s: %w", at, err))
}

// exists probes the active context. Transient errors are recorded and
// reported as "not viable".
func (s *frameSearch) exists(at browsing.Context) (found, viable bool, err error) {
	ok, err := s.b.ElementExists(s.selector)
	if err != nil {
		if poll.IsTransient(err) {
			s.skip(at, err)
			return false, false, nil
		}
		return false, false, err
	}
	return ok, true, nil
}

func (s *frameSearch) search(ctx context.Context, from browsing.Context) (browsing.Context, bool, error) {
	if !from.IsTopLevel() {
		if err := browsing.Activate(s.b, from); err != nil {
			if !poll.IsTransient(err) {
				return from, false, err
			}
			s.skip(from, err)
		} else if found, _, err := s.exists(from); err != nil || found {
			return from, found, err
		}
	}

	top := from.TopLevel()
	if err := browsing.Activate(s.b, top); err != nil {
		return top, false, err
	}
	if found, viable, err := s.exists(top); err != nil || found {
		return top, found, err
	} else if !viable {
		return top, false, nil
	}
	return s.descend(ctx, top)
}

// descend probes the children of at, which must be active, and leaves at
// active unless a match is found.
func (s *frameSearch) descend(ctx context.Context, at browsing.Context) (browsing.Context, bool, error) {
	if at.Depth() >= s.maxDepth {
		return at, false, nil
	}
	// Snapshot the children once; later probes do not re-enumerate.
	children, err := s.b.ChildFrames()
	if err != nil {
		if poll.IsTransient(err) {
			s.skip(at, err)
			return at, false, nil
		}
		return at, false, err
	}
	for _, f := range children {
		if err := ctx.Err(); err != nil {
			return at, false, err
		}
		child := at.Child(f)
		if err := s.b.SwitchToFrame(f); err != nil {
			if !poll.IsTransient(err) {
				return at, false, err
			}
			s.skip(child, err)
			if err := browsing.Activate(s.b, at); err != nil {
				return at, false, err
			}
			continue
		}

		found, viable, err := s.exists(child)
		if err != nil {
			return at, false, err
		}
		if found {
			return child, true, nil
		}
		if viable {
			match, ok, err := s.descend(ctx, child)
			if err != nil {
				return at, false, err
			}
			if ok {
				return match, true, nil
			}
		}
		if err := s.backtrack(child); err != nil {
			return at, false, err
		}
	}
	return at, false, nil
}

// backtrack switches from the active context to its parent, falling back to
// replaying the parent's path when the driver cannot step up.
func (s *frameSearch) backtrack(from browsing.Context) error {
	err := s.b.SwitchToParent()
	if err == nil {
		return nil
	}
	s.logger.Warningf("Switching to parent of %s failed (%v); replaying path", from, err)
	return browsing.Activate(s.b, from.Parent())
}
