// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/locate"
	"github.com/merlin-qa/framefinder/shared"
)

// LoginTimeout bounds the wait for the dock after submitting credentials.
const LoginTimeout = 30 * time.Second

const (
	usernameInput = `input[type="text"]`
	passwordInput = `input[type="password"]`
	errorMessage  = `.error-message`
	dock          = `[title="Dock"], #dock, .dock`
)

var (
	loginButton = byText("button", "Login")

	// Matched case-insensitively against element text when the error
	// banner is absent.
	errorWords = []string{"error", "invalid", "failed", "incorrect"}
)

// LoginPage is the shell's login window.
type LoginPage struct {
	s *locate.Session
}

// NewLoginPage returns the login page of s.
func NewLoginPage(s *locate.Session) *LoginPage {
	return &LoginPage{s: s}
}

// Login fills in the credentials and submits them.
func (p *LoginPage) Login(ctx context.Context, user, password string) error {
	shared.GetLogger(p.s.Context(ctx)).Infof("Attempting login as: %s", user)
	if err := p.s.SetValue(ctx, usernameInput, user); err != nil {
		return fmt.Errorf("entering username: %w", err)
	}
	if err := p.s.SetValue(ctx, passwordInput, password); err != nil {
		return fmt.Errorf("entering password: %w", err)
	}
	return p.s.Click(ctx, loginButton)
}

// IsLoggedIn waits up to LoginTimeout for the dock to appear.
func (p *LoginPage) IsLoggedIn(ctx context.Context) (bool, error) {
	err := p.s.WaitFor(ctx, dock, locate.Exists, LoginTimeout)
	if errors.Is(err, locate.ErrReadinessTimeout) {
		shared.GetLogger(p.s.Context(ctx)).Warningf("Login check failed: %v", err)
		return false, nil
	}
	return err == nil, err
}

// ErrorMessage returns the login error text, or "" if none is displayed.
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	text, err := p.s.Text(ctx, errorMessage)
	if err == nil {
		return text, nil
	} else if !errors.Is(err, locate.ErrReadinessTimeout) {
		return "", err
	}

	b := p.s.Browser()
	for _, word := range errorWords {
		sel := containsText(word)
		shown, err := b.ElementDisplayed(sel)
		if errors.Is(err, browsing.ErrNoSuchElement) {
			continue
		} else if err != nil {
			return "", err
		}
		if shown {
			return b.Text(sel)
		}
	}
	return "", nil
}

func containsText(word string) string {
	const lower = "translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz')"
	return fmt.Sprintf("//*[contains(%s, %s)]", lower, xpathLiteral(word))
}
