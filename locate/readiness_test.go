// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package locate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/locate"
	"github.com/merlin-qa/framefinder/shared/sharedtest"
)

const loginButton = "//button[normalize-space()='Login']"

func TestWaitVisible_becomesVisible(t *testing.T) {
	doc := sharedtest.NewDoc(loginButton)
	doc.Elements[loginButton].Hidden = true
	b := singleWindow(doc)
	p, clk := newStepPoller()
	clk.OnAfter = func(time.Time) { doc.Elements[loginButton].Hidden = false }

	err := locate.NewReadiness(p).WaitVisible(sharedtest.NewTestContext(), b, loginButton, 10*time.Second)
	assert.NoError(t, err)
	assert.Len(t, clk.Sleeps, 1)
}

func TestWaitVisible_timeout(t *testing.T) {
	b := singleWindow(sharedtest.NewDoc())
	p, _ := newStepPoller()

	err := locate.NewReadiness(p).WaitVisible(sharedtest.NewTestContext(), b, "input[type=\"password\"]", 3*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, locate.ErrReadinessTimeout)

	var terr *locate.ReadinessTimeoutError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "input[type=\"password\"]", terr.Selector)
	assert.Equal(t, locate.Visible, terr.Condition)
	assert.Equal(t, 3*time.Second, terr.Timeout)
	assert.Equal(t, 7, terr.Attempts)
	assert.ErrorIs(t, terr.LastErr, browsing.ErrNoSuchElement)
	assert.Contains(t, err.Error(), "not visible after 3s")
}

func TestWaitClickable(t *testing.T) {
	doc := sharedtest.NewDoc("#all-ownership-button")
	doc.Elements["#all-ownership-button"].Disabled = true
	b := singleWindow(doc)
	p, _ := newStepPoller()
	r := locate.NewReadiness(p)

	err := r.WaitClickable(sharedtest.NewTestContext(), b, "#all-ownership-button", time.Second)
	assert.ErrorIs(t, err, locate.ErrReadinessTimeout)

	doc.Elements["#all-ownership-button"].Disabled = false
	assert.NoError(t, r.WaitClickable(sharedtest.NewTestContext(), b, "#all-ownership-button", time.Second))
}

func TestWaitExists(t *testing.T) {
	doc := sharedtest.NewDoc()
	b := singleWindow(doc)
	p, clk := newStepPoller()
	clk.OnAfter = func(time.Time) {
		if len(clk.Sleeps) == 4 {
			doc.Elements["#dock"] = &sharedtest.FakeElement{Hidden: true}
		}
	}
	r := locate.NewReadiness(p)
	assert.NoError(t, r.WaitExists(sharedtest.NewTestContext(), b, "#dock", 30*time.Second))
	assert.Len(t, clk.Sleeps, 4)
}

func TestWait_invalidSelectorIsNotATimeout(t *testing.T) {
	b := singleWindow(sharedtest.NewDoc())
	b.Invalid["button=Login"] = true
	p, clk := newStepPoller()

	err := locate.NewReadiness(p).Wait(sharedtest.NewTestContext(), b, "button=Login", locate.Clickable, 10*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, browsing.ErrInvalidSelector)
	assert.NotErrorIs(t, err, locate.ErrReadinessTimeout)
	assert.Empty(t, clk.Sleeps)

	err = locate.NewReadiness(p).Wait(sharedtest.NewTestContext(), b, "#x", locate.Condition("focused"), time.Second)
	assert.Error(t, err)
}
