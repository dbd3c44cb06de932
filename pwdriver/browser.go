// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pwdriver implements browsing.Browser with Playwright, connected to
// a running runtime over CDP. Unlike WebDriver, Playwright exposes every
// frame as an object with a parent pointer, so no path bookkeeping is needed.
package pwdriver

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
)

// DefaultActionTimeout bounds a single Playwright action. Waiting belongs to
// the locate package, so actions should fail fast.
const DefaultActionTimeout = 2 * time.Second

// Browser adapts a Playwright browser to browsing.Browser. Window handles are
// generated per page and stay stable for the page's lifetime.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	timeout float64

	handles map[playwright.Page]string
	active  playwright.Page
	frame   playwright.Frame
}

// Connect starts the Playwright driver and attaches to the CDP endpoint, e.g.
// "http://127.0.0.1:9222".
func Connect(endpoint string) (*Browser, error) {
	opts := &playwright.RunOptions{
		SkipInstallBrowsers: true,
		Verbose:             false,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	browser, err := pw.Chromium.ConnectOverCDP(endpoint)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("connecting to %s: %w", endpoint, err)
	}
	b := NewBrowser(browser)
	b.pw = pw
	return b, nil
}

// NewBrowser wraps an already connected browser.
func NewBrowser(browser playwright.Browser) *Browser {
	return &Browser{
		browser: browser,
		timeout: float64(DefaultActionTimeout / time.Millisecond),
		handles: map[playwright.Page]string{},
	}
}

// Close disconnects from the browser and stops the driver.
func (b *Browser) Close() error {
	err := b.browser.Close()
	if b.pw != nil {
		if serr := b.pw.Stop(); err == nil {
			err = serr
		}
	}
	return err
}

// selector returns the Playwright form of a WebDriver style selector.
func selector(s string) string {
	if browsing.IsXPath(s) {
		return "xpath=" + s
	}
	return "css=" + s
}

// classify maps Playwright failures onto the browsing error kinds.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errors.Is(err, playwright.ErrTargetClosed),
		strings.Contains(msg, "Frame was detached"),
		strings.Contains(msg, "Execution context was destroyed"),
		strings.Contains(msg, "has been closed"):
		return browsing.Unavailable(what, err)
	case strings.Contains(msg, "not a valid selector"),
		strings.Contains(msg, "Unexpected token"),
		strings.Contains(msg, "Unknown engine"):
		return browsing.InvalidSelector(what, err)
	case errors.Is(err, playwright.ErrTimeout):
		return fmt.Errorf("%s: %w: %v", what, poll.ErrNotYetReady, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (b *Browser) handle(p playwright.Page) string {
	h, ok := b.handles[p]
	if !ok {
		h = uuid.New().String()
		b.handles[p] = h
	}
	return h
}

func (b *Browser) page(handle string) playwright.Page {
	for p, h := range b.handles {
		if h == handle {
			return p
		}
	}
	return nil
}

func (b *Browser) Windows() ([]browsing.Window, error) {
	var windows []browsing.Window
	for _, c := range b.browser.Contexts() {
		for _, p := range c.Pages() {
			if p.IsClosed() {
				delete(b.handles, p)
				continue
			}
			title, err := p.Title()
			if err != nil {
				// Closed while listing.
				continue
			}
			windows = append(windows, browsing.Window{Handle: b.handle(p), Title: title, URL: p.URL()})
		}
	}
	return windows, nil
}

func (b *Browser) SwitchToWindow(handle string) error {
	p := b.page(handle)
	if p == nil || p.IsClosed() {
		return browsing.Unavailable("window "+handle, nil)
	}
	b.active = p
	b.frame = p.MainFrame()
	return nil
}

func (b *Browser) SwitchToDefault() error {
	if b.active == nil || b.active.IsClosed() {
		return browsing.Unavailable("no active window", nil)
	}
	b.frame = b.active.MainFrame()
	return nil
}

func (b *Browser) SwitchToParent() error {
	if b.frame == nil {
		return browsing.Unavailable("no active window", nil)
	}
	if parent := b.frame.ParentFrame(); parent != nil {
		b.frame = parent
	}
	return nil
}

func (b *Browser) SwitchToFrame(f browsing.Frame) error {
	if b.frame == nil {
		return browsing.Unavailable("no active window", nil)
	}
	target, ok := f.Ref.(playwright.Frame)
	if !ok {
		children := b.frame.ChildFrames()
		if f.Index < 0 || f.Index >= len(children) {
			return browsing.Unavailable("frame "+f.String(), nil)
		}
		target = children[f.Index]
	}
	if target.IsDetached() || target.ParentFrame() != b.frame {
		return browsing.Unavailable("frame "+f.String(), nil)
	}
	b.frame = target
	return nil
}

// current returns the active frame, failing if it has gone away.
func (b *Browser) current() (playwright.Frame, error) {
	if b.frame == nil {
		return nil, browsing.Unavailable("no active window", nil)
	}
	if b.frame.IsDetached() {
		return nil, browsing.Unavailable("frame "+b.frame.Name(), nil)
	}
	return b.frame, nil
}

func (b *Browser) ChildFrames() ([]browsing.Frame, error) {
	fr, err := b.current()
	if err != nil {
		return nil, err
	}
	children := fr.ChildFrames()
	frames := make([]browsing.Frame, len(children))
	for i, c := range children {
		frames[i] = browsing.Frame{Index: i, Name: c.Name(), Ref: c}
		if e, err := c.FrameElement(); err == nil {
			frames[i].ID, _ = e.GetAttribute("id")
		}
	}
	return frames, nil
}

// first returns a locator for the first match of s, or ErrNoSuchElement.
func (b *Browser) first(s string) (playwright.Locator, error) {
	fr, err := b.current()
	if err != nil {
		return nil, err
	}
	loc := fr.Locator(selector(s))
	n, err := loc.Count()
	if err != nil {
		return nil, classify(err, s)
	}
	if n == 0 {
		return nil, browsing.NoSuchElement(s)
	}
	return loc.First(), nil
}

func (b *Browser) ElementExists(s string) (bool, error) {
	n, err := b.Count(s)
	return n > 0, err
}

func (b *Browser) ElementDisplayed(s string) (bool, error) {
	loc, err := b.first(s)
	if err != nil {
		return false, err
	}
	ok, err := loc.IsVisible()
	return ok, classify(err, s)
}

func (b *Browser) ElementEnabled(s string) (bool, error) {
	loc, err := b.first(s)
	if err != nil {
		return false, err
	}
	ok, err := loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: playwright.Float(b.timeout)})
	return ok, classify(err, s)
}

func (b *Browser) Click(s string) error {
	loc, err := b.first(s)
	if err != nil {
		return err
	}
	return classify(loc.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(b.timeout)}), s)
}

func (b *Browser) SetValue(s, value string) error {
	loc, err := b.first(s)
	if err != nil {
		return err
	}
	return classify(loc.Fill(value, playwright.LocatorFillOptions{Timeout: playwright.Float(b.timeout)}), s)
}

// keyStrokes splits keys into text to type and named keys to press.
func keyStrokes(keys string) []string {
	var out []string
	for i, part := range strings.Split(keys, browsing.EnterKey) {
		if i > 0 {
			out = append(out, browsing.EnterKey)
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (b *Browser) SendKeys(keys string) error {
	if b.active == nil {
		return browsing.Unavailable("no active window", nil)
	}
	kb := b.active.Keyboard()
	for _, stroke := range keyStrokes(keys) {
		var err error
		if stroke == browsing.EnterKey {
			err = kb.Press("Enter")
		} else {
			err = kb.Type(stroke)
		}
		if err != nil {
			return classify(err, "active element")
		}
	}
	return nil
}

func (b *Browser) Text(s string) (string, error) {
	loc, err := b.first(s)
	if err != nil {
		return "", err
	}
	text, err := loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: playwright.Float(b.timeout)})
	return text, classify(err, s)
}

func (b *Browser) Attribute(s, name string) (string, error) {
	loc, err := b.first(s)
	if err != nil {
		return "", err
	}
	v, err := loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: playwright.Float(b.timeout)})
	return v, classify(err, s)
}

func (b *Browser) Count(s string) (int, error) {
	fr, err := b.current()
	if err != nil {
		return 0, err
	}
	n, err := fr.Locator(selector(s)).Count()
	return n, classify(err, s)
}

var _ browsing.Browser = (*Browser)(nil)
