// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merlin-qa/framefinder/locate"
	"github.com/merlin-qa/framefinder/shared"
)

// ConfirmTimeout bounds the wait for the optional logout confirmation.
const ConfirmTimeout = 5 * time.Second

const (
	menuButton  = `button.hamburger, .menu-button, [title="Merlin"], [data-testid="merlin-button"]`
	userProfile = `[title="User Profile"], .user-profile-button`
)

var (
	logoutButton  = byText("button", "Log Out", "Logout")
	confirmButton = byText("button", "Confirm", "Yes")
)

// menuItem selects a launcher entry by its label or title.
func menuItem(item string) string {
	lit := xpathLiteral(item)
	return fmt.Sprintf("//span[normalize-space()=%[1]s] | //a[normalize-space()=%[1]s] | //*[@title=%[1]s]", lit)
}

// CommonPage holds the controls shared by every shell window.
type CommonPage struct {
	s *locate.Session
}

// NewCommonPage returns the shared controls of s.
func NewCommonPage(s *locate.Session) *CommonPage {
	return &CommonPage{s: s}
}

// OpenMenuItem opens the launcher menu and clicks item. The screen it opens
// usually appears in a new window; use SwitchToWindow to reach it.
func (p *CommonPage) OpenMenuItem(ctx context.Context, item string) error {
	if err := p.s.Click(ctx, menuButton); err != nil {
		return fmt.Errorf("opening menu: %w", err)
	}
	if err := p.s.Click(ctx, menuItem(item)); err != nil {
		return fmt.Errorf("opening menu item %q: %w", item, err)
	}
	return nil
}

// Logout signs out through the user profile menu, confirming if asked.
func (p *CommonPage) Logout(ctx context.Context) error {
	if err := p.s.Click(ctx, userProfile); err != nil {
		return fmt.Errorf("opening user profile: %w", err)
	}
	if err := p.s.Click(ctx, logoutButton); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	err := p.s.WaitFor(ctx, confirmButton, locate.Clickable, ConfirmTimeout)
	if errors.Is(err, locate.ErrReadinessTimeout) {
		shared.GetLogger(p.s.Context(ctx)).Debugf("No logout confirmation shown")
		return nil
	} else if err != nil {
		return err
	}
	return p.s.Click(ctx, confirmButton)
}

// SwitchToWindow focuses the first window whose title or URL contains text.
// It reports false, with no error, when no such window appears in time.
func (p *CommonPage) SwitchToWindow(ctx context.Context, text string) (bool, error) {
	res := p.s.FocusWindowContaining(ctx, text)
	return res.Found(), res.Err
}
