// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:generate mockgen -destination ../shared/sharedtest/browser_mock.go -package sharedtest github.com/merlin-qa/framefinder/browsing Browser

// Package browsing defines browsing contexts (top-level windows and nested
// frames) and the boundary to the automation driver that hosts them.
//
// A driver has one "active" context: switching is a process-wide side effect
// on the driver session, not something scoped to a call. Callers therefore
// carry a Context value explicitly and use Activate to re-establish it.
package browsing

import (
	"fmt"
	"strings"
)

// Window describes a top-level browsing context.
type Window struct {
	Handle string
	Title  string
	URL    string
}

func (w Window) String() string {
	return fmt.Sprintf("%s (%q, %s)", w.Handle, w.Title, w.URL)
}

// Frame identifies a child frame of the active context. Index is its position
// in the parent's ChildFrames listing; Ref is the driver's own handle.
type Frame struct {
	Index int
	Name  string
	ID    string
	Ref   interface{}
}

func (f Frame) String() string {
	switch {
	case f.ID != "":
		return fmt.Sprintf("#%s", f.ID)
	case f.Name != "":
		return fmt.Sprintf("[name=%s]", f.Name)
	}
	return fmt.Sprintf("[%d]", f.Index)
}

// Context is a browsing context handle: a window plus the path of frames
// from that window's top-level document. A zero Context means "whatever
// window is active, top-level document".
type Context struct {
	Window string
	Frames []Frame
}

// Depth is the number of frames below the top-level document.
func (c Context) Depth() int {
	return len(c.Frames)
}

// IsTopLevel reports whether c addresses a window's top-level document.
func (c Context) IsTopLevel() bool {
	return len(c.Frames) == 0
}

// TopLevel returns the top-level document of c's window.
func (c Context) TopLevel() Context {
	return Context{Window: c.Window}
}

// Child returns the context of frame f inside c. c is not modified.
func (c Context) Child(f Frame) Context {
	frames := make([]Frame, len(c.Frames), len(c.Frames)+1)
	copy(frames, c.Frames)
	return Context{Window: c.Window, Frames: append(frames, f)}
}

// Parent returns the enclosing context. The parent of a top-level context is
// itself.
func (c Context) Parent() Context {
	if c.IsTopLevel() {
		return c
	}
	frames := make([]Frame, len(c.Frames)-1)
	copy(frames, c.Frames)
	return Context{Window: c.Window, Frames: frames}
}

func (c Context) String() string {
	var b strings.Builder
	if c.Window == "" {
		b.WriteString("<active window>")
	} else {
		b.WriteString(c.Window)
	}
	for _, f := range c.Frames {
		b.WriteString(" > ")
		b.WriteString(f.String())
	}
	return b.String()
}

// Provider is the driver boundary used to enumerate and switch contexts. All
// element queries address the active context.
type Provider interface {
	// Windows lists the open top-level contexts in the driver's order. Some
	// drivers must switch into each window to read its title, so the active
	// window is undefined afterwards.
	Windows() ([]Window, error)
	SwitchToWindow(handle string) error
	// SwitchToDefault activates the top-level document of the active window.
	SwitchToDefault() error
	SwitchToParent() error
	SwitchToFrame(f Frame) error
	// ChildFrames lists the frames directly inside the active context.
	ChildFrames() ([]Frame, error)
	ElementExists(selector string) (bool, error)
}

// Inspector answers readiness questions about elements in the active context.
type Inspector interface {
	ElementDisplayed(selector string) (bool, error)
	ElementEnabled(selector string) (bool, error)
}

// Interactor performs user actions in the active context.
type Interactor interface {
	Click(selector string) error
	SetValue(selector, value string) error
	// SendKeys types into whatever element has focus.
	SendKeys(keys string) error
	Text(selector string) (string, error)
	// Attribute returns the named attribute of the first match, or "" when
	// the element does not carry it.
	Attribute(selector, name string) (string, error)
	Count(selector string) (int, error)
}

// Browser is everything the locators and page objects need from a driver.
type Browser interface {
	Provider
	Inspector
	Interactor
}

// EnterKey is the WebDriver code point for the Enter key, understood by all
// providers' SendKeys.
const EnterKey = "\ue007"

// IsXPath reports whether selector is an XPath expression rather than CSS,
// following the WebdriverIO convention.
func IsXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

// Activate makes c the active context of b: it switches to c's window (when
// set), resets to the top-level document and replays the frame path.
func Activate(b Provider, c Context) error {
	if c.Window != "" {
		if err := b.SwitchToWindow(c.Window); err != nil {
			return fmt.Errorf("activating window %s: %w", c.Window, err)
		}
	}
	if err := b.SwitchToDefault(); err != nil {
		return fmt.Errorf("activating top-level document of %s: %w", c, err)
	}
	for i, f := range c.Frames {
		if err := b.SwitchToFrame(f); err != nil {
			return fmt.Errorf("activating frame %s at depth %d of %s: %w", f, i+1, c, err)
		}
	}
	return nil
}
