// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
	"github.com/tebeka/selenium"
)

// frameSelector matches the frames a context can switch into.
const frameSelector = "iframe, frame"

// Browser adapts a selenium.WebDriver to browsing.Browser.
//
// The Selenium client has no parent-frame command, so Browser remembers the
// frames it switched through and implements SwitchToParent by replaying all
// but the last one from the top-level document.
type Browser struct {
	wd   selenium.WebDriver
	path []browsing.Frame
}

// NewBrowser wraps wd. The active context is assumed to be the top-level
// document of the current window.
func NewBrowser(wd selenium.WebDriver) *Browser {
	return &Browser{wd: wd}
}

// WebDriver returns the wrapped driver.
func (b *Browser) WebDriver() selenium.WebDriver {
	return b.wd
}

// Close ends the WebDriver session. An attached runtime keeps running.
func (b *Browser) Close() error {
	return b.wd.Quit()
}

func by(selector string) string {
	if browsing.IsXPath(selector) {
		return selenium.ByXPATH
	}
	return selenium.ByCSSSelector
}

// errorCode extracts the W3C error code from a Selenium error, falling back to
// the message for drivers speaking the legacy protocol.
func errorCode(err error) string {
	var serr *selenium.Error
	if errors.As(err, &serr) && serr.Err != "" {
		return serr.Err
	}
	return err.Error()
}

// classify maps Selenium failures onto the browsing error kinds. what names
// the selector or context being probed.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	code := errorCode(err)
	switch {
	case strings.Contains(code, "no such element"):
		return browsing.NoSuchElement(what)
	case strings.Contains(code, "invalid selector"):
		return browsing.InvalidSelector(what, err)
	case strings.Contains(code, "stale element reference"),
		strings.Contains(code, "no such frame"),
		strings.Contains(code, "no such window"):
		return browsing.Unavailable(what, err)
	case strings.Contains(code, "element not interactable"),
		strings.Contains(code, "element click intercepted"):
		return fmt.Errorf("%s: %w: %v", what, poll.ErrNotYetReady, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (b *Browser) Windows() ([]browsing.Window, error) {
	handles, err := b.wd.WindowHandles()
	if err != nil {
		return nil, classify(err, "listing windows")
	}
	windows := make([]browsing.Window, 0, len(handles))
	for _, h := range handles {
		w, err := b.describe(h)
		if browsing.IsUnavailable(err) {
			// Closed while listing.
			continue
		} else if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func (b *Browser) describe(handle string) (browsing.Window, error) {
	w := browsing.Window{Handle: handle}
	if err := b.SwitchToWindow(handle); err != nil {
		return w, err
	}
	var err error
	if w.Title, err = b.wd.Title(); err != nil {
		return w, classify(err, "window "+handle)
	}
	if w.URL, err = b.wd.CurrentURL(); err != nil {
		return w, classify(err, "window "+handle)
	}
	return w, nil
}

func (b *Browser) SwitchToWindow(handle string) error {
	if err := b.wd.SwitchWindow(handle); err != nil {
		return classify(err, "window "+handle)
	}
	b.path = nil
	return nil
}

func (b *Browser) SwitchToDefault() error {
	if err := b.wd.SwitchFrame(nil); err != nil {
		return classify(err, "top-level document")
	}
	b.path = nil
	return nil
}

func (b *Browser) SwitchToParent() error {
	if len(b.path) == 0 {
		return nil
	}
	parent := b.path[:len(b.path)-1]
	if err := b.SwitchToDefault(); err != nil {
		return err
	}
	for _, f := range parent {
		if err := b.SwitchToFrame(f); err != nil {
			return err
		}
	}
	return nil
}

func (b *Browser) SwitchToFrame(f browsing.Frame) error {
	var target interface{} = f.Index
	if e, ok := f.Ref.(selenium.WebElement); ok {
		target = e
	}
	if err := b.wd.SwitchFrame(target); err != nil {
		return classify(err, "frame "+f.String())
	}
	b.path = append(b.path, f)
	return nil
}

func (b *Browser) ChildFrames() ([]browsing.Frame, error) {
	elems, err := b.wd.FindElements(selenium.ByCSSSelector, frameSelector)
	if err != nil {
		return nil, classify(err, "listing frames")
	}
	frames := make([]browsing.Frame, len(elems))
	for i, e := range elems {
		frames[i] = browsing.Frame{Index: i, Ref: e}
		// Attributes are labels only; a frame torn down meanwhile fails
		// when switched into.
		frames[i].ID, _ = e.GetAttribute("id")
		frames[i].Name, _ = e.GetAttribute("name")
	}
	return frames, nil
}

func (b *Browser) find(selector string) (selenium.WebElement, error) {
	e, err := b.wd.FindElement(by(selector), selector)
	if err != nil {
		return nil, classify(err, selector)
	}
	return e, nil
}

func (b *Browser) ElementExists(selector string) (bool, error) {
	n, err := b.Count(selector)
	return n > 0, err
}

func (b *Browser) ElementDisplayed(selector string) (bool, error) {
	e, err := b.find(selector)
	if err != nil {
		return false, err
	}
	ok, err := e.IsDisplayed()
	return ok, classify(err, selector)
}

func (b *Browser) ElementEnabled(selector string) (bool, error) {
	e, err := b.find(selector)
	if err != nil {
		return false, err
	}
	ok, err := e.IsEnabled()
	return ok, classify(err, selector)
}

func (b *Browser) Click(selector string) error {
	e, err := b.find(selector)
	if err != nil {
		return err
	}
	return classify(e.Click(), selector)
}

func (b *Browser) SetValue(selector, value string) error {
	e, err := b.find(selector)
	if err != nil {
		return err
	}
	if err := e.Clear(); err != nil {
		return classify(err, selector)
	}
	return classify(e.SendKeys(value), selector)
}

func (b *Browser) SendKeys(keys string) error {
	e, err := b.wd.ActiveElement()
	if err != nil {
		return classify(err, "active element")
	}
	return classify(e.SendKeys(keys), "active element")
}

func (b *Browser) Text(selector string) (string, error) {
	e, err := b.find(selector)
	if err != nil {
		return "", err
	}
	text, err := e.Text()
	return text, classify(err, selector)
}

func (b *Browser) Attribute(selector, name string) (string, error) {
	e, err := b.find(selector)
	if err != nil {
		return "", err
	}
	v, err := e.GetAttribute(name)
	if err != nil && err.Error() == "nil return value" {
		// The element does not carry the attribute.
		return "", nil
	}
	return v, classify(err, selector)
}

func (b *Browser) Count(selector string) (int, error) {
	elems, err := b.wd.FindElements(by(selector), selector)
	if err != nil {
		// Some drivers report an empty result as an error.
		if errors.Is(classify(err, selector), browsing.ErrNoSuchElement) {
			return 0, nil
		}
		return 0, classify(err, selector)
	}
	return len(elems), nil
}
