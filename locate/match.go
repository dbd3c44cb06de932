// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package locate

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/merlin-qa/framefinder/browsing"
)

// Match selects a window by its title or address.
type Match interface {
	Matches(w browsing.Window) bool
	String() string
}

type containing string

// Containing matches windows whose title or URL contains text, ignoring case.
func Containing(text string) Match {
	return containing(strings.ToLower(text))
}

func (c containing) Matches(w browsing.Window) bool {
	text := string(c)
	return strings.Contains(strings.ToLower(w.Title), text) ||
		strings.Contains(strings.ToLower(w.URL), text)
}

func (c containing) String() string {
	return fmt.Sprintf("containing %q", string(c))
}

type globMatch struct {
	pattern string
	g       glob.Glob
}

// Glob matches windows whose whole title or URL matches pattern, ignoring
// case. '*' does not cross '/' in URLs; use '**' for that.
func Glob(pattern string) (Match, error) {
	g, err := glob.Compile(strings.ToLower(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("invalid window pattern %q: %w", pattern, err)
	}
	return globMatch{pattern: pattern, g: g}, nil
}

func (m globMatch) Matches(w browsing.Window) bool {
	return m.g.Match(strings.ToLower(w.Title)) || m.g.Match(strings.ToLower(w.URL))
}

func (m globMatch) String() string {
	return fmt.Sprintf("matching %q", m.pattern)
}
