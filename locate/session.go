// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package locate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/shared"
)

// Session is one scenario's view of a driver: the browser, the context the
// scenario believes is active, and the locators configured for it.
//
// A Session is not safe for concurrent use. Two Sessions must not share a
// Browser, since switching contexts is a side effect on the driver.
type Session struct {
	ID string

	browser   browsing.Browser
	current   browsing.Context
	cfg       shared.Config
	logger    shared.Logger
	windows   *WindowLocator
	frames    *FrameLocator
	readiness *Readiness
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	logger shared.Logger
	poller *poll.Poller
}

// WithSessionLogger sets the session's logger.
func WithSessionLogger(l shared.Logger) SessionOption {
	return func(o *sessionOptions) { o.logger = l }
}

// WithPoller overrides the poller built from the config, e.g. to inject a
// fake clock.
func WithPoller(p *poll.Poller) SessionOption {
	return func(o *sessionOptions) { o.poller = p }
}

// NewSession creates a Session over b using cfg's timeouts, poll interval and
// frame depth.
func NewSession(b browsing.Browser, cfg shared.Config, opts ...SessionOption) *Session {
	o := sessionOptions{logger: shared.NewNilLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	id := uuid.New().String()
	logger := shared.WithField(o.logger, "session", id)
	p := o.poller
	if p == nil {
		p = poll.NewPoller(poll.WithInterval(cfg.PollInterval))
	}
	p = p.With(poll.WithLogger(logger))
	return &Session{
		ID:        id,
		browser:   b,
		cfg:       cfg,
		logger:    logger,
		windows:   NewWindowLocator(p),
		frames:    NewFrameLocator(p),
		readiness: NewReadiness(p),
	}
}

// Browser returns the underlying driver.
func (s *Session) Browser() browsing.Browser {
	return s.browser
}

// Config returns the session's configuration.
func (s *Session) Config() shared.Config {
	return s.cfg
}

// Current returns the context the session last established.
func (s *Session) Current() browsing.Context {
	return s.current
}

// Poller returns a poller sharing the session's clock and interval.
func (s *Session) Poller(name string) *poll.Poller {
	return s.readiness.poller.With(poll.WithName(name))
}

// Context attaches the session logger to ctx.
func (s *Session) Context(ctx context.Context) context.Context {
	return shared.WithLogger(ctx, s.logger)
}

// FocusWindow activates the first window m matches.
func (s *Session) FocusWindow(ctx context.Context, m Match) Result {
	res := s.windows.FindWindow(s.Context(ctx), s.browser, s.current, m, s.cfg.Timeouts.Window)
	s.track(res)
	return res
}

// FocusWindowContaining activates the first window whose title or URL
// contains text.
func (s *Session) FocusWindowContaining(ctx context.Context, text string) Result {
	return s.FocusWindow(ctx, Containing(text))
}

// EnterFrameWith activates the frame of the current window that contains
// selector.
func (s *Session) EnterFrameWith(ctx context.Context, selector string) Result {
	res := s.frames.FindFrameWith(s.Context(ctx), s.browser, s.current, selector, s.cfg.MaxFrameDepth)
	s.track(res)
	return res
}

// WaitForFrameWith polls EnterFrameWith for up to timeout.
func (s *Session) WaitForFrameWith(ctx context.Context, selector string) Result {
	res := s.frames.WaitForFrameWith(s.Context(ctx), s.browser, s.current, selector, s.cfg.MaxFrameDepth, s.cfg.Timeouts.Element)
	s.track(res)
	return res
}

// EnterFrame waits for the frame element matching frameSelector in the
// current context and activates that frame. The element is tied to a child
// frame through its id or name attribute.
func (s *Session) EnterFrame(ctx context.Context, frameSelector string) error {
	if err := s.WaitExists(ctx, frameSelector); err != nil {
		return err
	}
	id, err := s.browser.Attribute(frameSelector, "id")
	if err != nil {
		return fmt.Errorf("reading id of %s: %w", frameSelector, err)
	}
	name, err := s.browser.Attribute(frameSelector, "name")
	if err != nil {
		return fmt.Errorf("reading name of %s: %w", frameSelector, err)
	}
	if id == "" && name == "" {
		return fmt.Errorf("frame %s has neither id nor name", frameSelector)
	}
	frames, err := s.browser.ChildFrames()
	if err != nil {
		return fmt.Errorf("listing frames of %s: %w", s.current, err)
	}
	for _, f := range frames {
		if (id != "" && f.ID == id) || (id == "" && f.Name == name) {
			if err := s.browser.SwitchToFrame(f); err != nil {
				return fmt.Errorf("entering %s: %w", f, err)
			}
			s.current = s.current.Child(f)
			s.logger.Infof("Entered frame %s", s.current)
			return nil
		}
	}
	return fmt.Errorf("%s is not a child frame of %s", frameSelector, s.current)
}

func (s *Session) track(res Result) {
	if res.Status == StatusFailed && res.Context.Window == "" {
		// Nothing was re-established, so the last known context stands.
		return
	}
	s.current = res.Context
}

// Restore re-activates the session's current context on the driver.
func (s *Session) Restore() error {
	return browsing.Activate(s.browser, s.current)
}

// Reset activates the top-level document of the current window.
func (s *Session) Reset() error {
	s.current = s.current.TopLevel()
	return browsing.Activate(s.browser, s.current)
}

// WaitExists waits, in the active context, for selector to exist.
func (s *Session) WaitExists(ctx context.Context, selector string) error {
	return s.readiness.WaitExists(s.Context(ctx), s.browser, selector, s.cfg.Timeouts.Element)
}

// WaitVisible waits, in the active context, for selector to be displayed.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	return s.readiness.WaitVisible(s.Context(ctx), s.browser, selector, s.cfg.Timeouts.Element)
}

// WaitClickable waits, in the active context, for selector to be clickable.
func (s *Session) WaitClickable(ctx context.Context, selector string) error {
	return s.readiness.WaitClickable(s.Context(ctx), s.browser, selector, s.cfg.Timeouts.Element)
}

// WaitFor waits for selector to satisfy cond, overriding the configured
// element timeout.
func (s *Session) WaitFor(ctx context.Context, selector string, cond Condition, timeout time.Duration) error {
	return s.readiness.Wait(s.Context(ctx), s.browser, selector, cond, timeout)
}

// Click waits for selector to be clickable and clicks it.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.WaitClickable(ctx, selector); err != nil {
		return err
	}
	if err := s.browser.Click(selector); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// SetValue waits for selector to be visible and replaces its value.
func (s *Session) SetValue(ctx context.Context, selector, value string) error {
	if err := s.WaitVisible(ctx, selector); err != nil {
		return err
	}
	if err := s.browser.SetValue(selector, value); err != nil {
		return fmt.Errorf("setting value of %s: %w", selector, err)
	}
	return nil
}

// SendKeys types keys into the focused element.
func (s *Session) SendKeys(keys string) error {
	return s.browser.SendKeys(keys)
}

// Text waits for selector to be visible and returns its text.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	if err := s.WaitVisible(ctx, selector); err != nil {
		return "", err
	}
	text, err := s.browser.Text(selector)
	if err != nil {
		return "", fmt.Errorf("reading text of %s: %w", selector, err)
	}
	return text, nil
}

// Attribute waits for selector to exist and returns the named attribute.
func (s *Session) Attribute(ctx context.Context, selector, name string) (string, error) {
	if err := s.WaitExists(ctx, selector); err != nil {
		return "", err
	}
	v, err := s.browser.Attribute(selector, name)
	if err != nil {
		return "", fmt.Errorf("reading %s of %s: %w", name, selector, err)
	}
	return v, nil
}

// Count returns how many elements match selector, without waiting.
func (s *Session) Count(selector string) (int, error) {
	return s.browser.Count(selector)
}

// Exists reports whether selector matches an element, without waiting.
func (s *Session) Exists(selector string) (bool, error) {
	return s.browser.ElementExists(selector)
}
