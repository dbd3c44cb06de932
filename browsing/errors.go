// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package browsing

import (
	"errors"
	"fmt"

	"github.com/merlin-qa/framefinder/poll"
)

var (
	// ErrContextUnavailable means a probed window or frame went away
	// mid-check (closed window, torn-down frame). It is transient.
	ErrContextUnavailable = fmt.Errorf("browsing context unavailable: %w", poll.ErrNotYetReady)

	// ErrNoSuchElement means the selector matched nothing yet. It is
	// transient.
	ErrNoSuchElement = fmt.Errorf("no such element: %w", poll.ErrNotYetReady)

	// ErrInvalidSelector is a caller contract violation and is never retried.
	ErrInvalidSelector = errors.New("invalid selector")
)

// Unavailable wraps err as ErrContextUnavailable, describing what was probed.
func Unavailable(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", what, ErrContextUnavailable)
	}
	return fmt.Errorf("%s: %w: %v", what, ErrContextUnavailable, err)
}

// NoSuchElement wraps ErrNoSuchElement for selector.
func NoSuchElement(selector string) error {
	return fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
}

// InvalidSelector wraps ErrInvalidSelector for selector.
func InvalidSelector(selector string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrInvalidSelector, selector)
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidSelector, selector, err)
}

// IsUnavailable reports whether err means a context disappeared.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrContextUnavailable)
}
