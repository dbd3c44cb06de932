// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package locate finds the browsing context hosting a screen: the window
// among the shell's top-level windows, then the frame within it, and waits
// for elements in that context to become ready.
//
// Searches report absence as a value (StatusNotFound) because a missing
// window or frame is a common, expected state during multi-window
// navigation. Only element readiness timeouts are errors.
package locate

import (
	"fmt"
	"time"

	"github.com/merlin-qa/framefinder/browsing"
)

// Status is the kind of a search result.
type Status int

const (
	// StatusNotFound means the search was exhausted within its budget.
	StatusNotFound Status = iota
	// StatusFound means the target was found and its context is active.
	StatusFound
	// StatusFailed means a probe failed unexpectedly; see Result.Err.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of a window or frame search.
type Result struct {
	Status Status
	// Context is the context left active: the match when found, otherwise
	// the context the locator restored (zero when undefined).
	Context browsing.Context
	// Window is the matched window, for window searches.
	Window browsing.Window
	// Err is set when Status is StatusFailed.
	Err error
	// Skipped collects transient probe errors that were tolerated, as a
	// *shared.MultiError, or nil.
	Skipped error

	Attempts int
	Elapsed  time.Duration
}

// Found reports whether the target was found.
func (r Result) Found() bool {
	return r.Status == StatusFound
}

func (r Result) String() string {
	switch r.Status {
	case StatusFound:
		return fmt.Sprintf("found %s", r.Context)
	case StatusFailed:
		return fmt.Sprintf("failed: %v", r.Err)
	}
	return fmt.Sprintf("not found after %d attempt(s) in %s", r.Attempts, r.Elapsed)
}
