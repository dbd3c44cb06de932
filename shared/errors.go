// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"fmt"
	"strings"
)

// MultiError is a convenient wrapper of multiple errors and is itself an
// implementation of the error interface.
type MultiError struct {
	errors []error
	when   string
}

// NewMultiErrorFromChan creates a MultiError by reading from an error channel.
// The "when" parameter will be included in the error string in a "when" clause.
// If there is no error in the channel, nil will be returned.
//
// Note that it uses `range` over the channel, so users need to close the
// channel before calling this function or running it in a goroutine.
func NewMultiErrorFromChan(errors chan error, when string) error {
	var errs []error
	for err := range errors {
		errs = append(errs, err)
	}
	return NewMultiError(errs, when)
}

// NewMultiError creates a MultiError from a slice of errors. The "when"
// parameter will be included in the error string in a "when" clause.
// If the slice is empty, nil will be returned.
func NewMultiError(errors []error, when string) error {
	if len(errors) == 0 {
		return nil
	}
	return &MultiError{errors, when}
}

func (e *MultiError) Error() string {
	if e.Count() == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d error(s) occurred when %s:\n", len(e.errors), e.when)
	for _, err := range e.errors {
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// Count returns the number of errors in this MultiError.
func (e *MultiError) Count() int {
	return len(e.errors)
}

// Errors returns the inner error slice of a MultiError.
func (e *MultiError) Errors() []error {
	return e.errors
}

// Unwrap exposes the inner errors to errors.Is and errors.As.
func (e *MultiError) Unwrap() []error {
	return e.errors
}
