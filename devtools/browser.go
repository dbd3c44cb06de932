// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package devtools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/merlin-qa/framefinder/browsing"
)

// DefaultActionTimeout bounds a single protocol round trip.
const DefaultActionTimeout = 5 * time.Second

// Browser implements browsing.Browser over a DevTools connection. Windows are
// page targets; frames are addressed by their index path from the top-level
// document.
type Browser struct {
	ctx     context.Context
	cancel  func()
	timeout time.Duration

	tabs   map[string]tab
	active string
	path   []int
}

// tab is an attachment to one page target.
type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Browser.
type Option func(*Browser)

// WithActionTimeout overrides DefaultActionTimeout.
func WithActionTimeout(d time.Duration) Option {
	return func(b *Browser) { b.timeout = d }
}

// Connect attaches to the browser whose endpoint is described by v. No
// target is created or activated.
func Connect(ctx context.Context, v *Version, opts ...Option) (*Browser, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, v.WebSocketDebuggerURL, chromedp.NoModifyURL)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	b := &Browser{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		timeout: DefaultActionTimeout,
		tabs:    map[string]tab{},
	}
	for _, opt := range opts {
		opt(b)
	}
	// Targets establishes the browser connection.
	if _, err := chromedp.Targets(browserCtx); err != nil {
		b.cancel()
		return nil, fmt.Errorf("connecting to %s: %w", v.WebSocketDebuggerURL, err)
	}
	return b, nil
}

// Close disconnects from the browser.
func (b *Browser) Close() error {
	b.cancel()
	return nil
}

// classify maps protocol failures caused by a target or execution context
// going away onto browsing.ErrContextUnavailable.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(msg, "No target with given id"),
		strings.Contains(msg, "Cannot find context with specified id"),
		strings.Contains(msg, "Execution context was destroyed"),
		strings.Contains(msg, "target closed"):
		return browsing.Unavailable(what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (b *Browser) eval(path []int, op, selector, value string) (result, error) {
	what := selector
	if what == "" {
		what = fmt.Sprintf("frame path %v", path)
	}
	var res result
	t, ok := b.tabs[b.active]
	if !ok {
		return res, browsing.Unavailable("no active window", nil)
	}
	expr, err := expression(call{Path: path, Op: op, Selector: selector, Value: value})
	if err != nil {
		return res, err
	}
	ctx, cancel := context.WithTimeout(t.ctx, b.timeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &res)); err != nil {
		return res, classify(err, what)
	}
	return res, res.err(what)
}

func (b *Browser) Windows() ([]browsing.Window, error) {
	infos, err := chromedp.Targets(b.ctx)
	if err != nil {
		return nil, classify(err, "listing targets")
	}
	var windows []browsing.Window
	for _, t := range infos {
		if t.Type != "page" {
			continue
		}
		windows = append(windows, browsing.Window{Handle: string(t.TargetID), Title: t.Title, URL: t.URL})
	}
	return windows, nil
}

func (b *Browser) SwitchToWindow(handle string) error {
	if _, ok := b.tabs[handle]; !ok {
		ctx, cancel := chromedp.NewContext(b.ctx, chromedp.WithTargetID(target.ID(handle)))
		if err := chromedp.Run(ctx); err != nil {
			cancel()
			return classify(err, "window "+handle)
		}
		b.tabs[handle] = tab{ctx: ctx, cancel: cancel}
	}
	prev := b.active
	b.active = handle
	if _, err := b.eval(nil, opPing, "", ""); err != nil {
		b.tabs[handle].cancel()
		delete(b.tabs, handle)
		b.active = prev
		return err
	}
	b.path = nil
	return nil
}

func (b *Browser) SwitchToDefault() error {
	if _, ok := b.tabs[b.active]; !ok {
		return browsing.Unavailable("no active window", nil)
	}
	b.path = nil
	return nil
}

func (b *Browser) SwitchToParent() error {
	if len(b.path) > 0 {
		b.path = b.path[:len(b.path)-1]
	}
	return nil
}

func (b *Browser) SwitchToFrame(f browsing.Frame) error {
	path := append(append([]int{}, b.path...), f.Index)
	if _, err := b.eval(path, opPing, "", ""); err != nil {
		return err
	}
	b.path = path
	return nil
}

func (b *Browser) ChildFrames() ([]browsing.Frame, error) {
	res, err := b.eval(b.path, opFrames, "", "")
	if err != nil {
		return nil, err
	}
	frames := make([]browsing.Frame, len(res.Frames))
	for i, f := range res.Frames {
		frames[i] = browsing.Frame{Index: i, ID: f.ID, Name: f.Name}
	}
	return frames, nil
}

func (b *Browser) ElementExists(selector string) (bool, error) {
	n, err := b.Count(selector)
	return n > 0, err
}

func (b *Browser) ElementDisplayed(selector string) (bool, error) {
	res, err := b.eval(b.path, opDisplayed, selector, "")
	return res.OK, err
}

func (b *Browser) ElementEnabled(selector string) (bool, error) {
	res, err := b.eval(b.path, opEnabled, selector, "")
	return res.OK, err
}

func (b *Browser) Click(selector string) error {
	_, err := b.eval(b.path, opClick, selector, "")
	return err
}

func (b *Browser) SetValue(selector, value string) error {
	_, err := b.eval(b.path, opSetValue, selector, value)
	return err
}

// SendKeys dispatches key events to the focused element of the active
// window.
func (b *Browser) SendKeys(keys string) error {
	t, ok := b.tabs[b.active]
	if !ok {
		return browsing.Unavailable("no active window", nil)
	}
	ctx, cancel := context.WithTimeout(t.ctx, b.timeout)
	defer cancel()
	keys = strings.ReplaceAll(keys, browsing.EnterKey, kb.Enter)
	return classify(chromedp.Run(ctx, chromedp.KeyEvent(keys)), "active element")
}

func (b *Browser) Text(selector string) (string, error) {
	res, err := b.eval(b.path, opText, selector, "")
	return res.Text, err
}

func (b *Browser) Attribute(selector, name string) (string, error) {
	res, err := b.eval(b.path, opAttribute, selector, name)
	return res.Text, err
}

func (b *Browser) Count(selector string) (int, error) {
	res, err := b.eval(b.path, opCount, selector, "")
	return res.Count, err
}

var _ browsing.Browser = (*Browser)(nil)
