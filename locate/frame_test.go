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
	"github.com/merlin-qa/framefinder/shared"
	"github.com/merlin-qa/framefinder/shared/sharedtest"
)

const blotterRoot = "#HistoricalBlotter"

func frameIDs(c browsing.Context) []string {
	ids := []string{}
	for _, f := range c.Frames {
		ids = append(ids, f.ID)
	}
	return ids
}

func singleWindow(doc *sharedtest.FakeDocument) *sharedtest.FakeBrowser {
	return sharedtest.NewFakeBrowser(&sharedtest.FakeWindow{Handle: "w1", Title: "Historical Trader Blotter", Doc: doc})
}

func TestFindFrameWith_respectsMaxDepth(t *testing.T) {
	b := singleWindow(sharedtest.FrameChain(4, 4, blotterRoot))
	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, 3)

	assert.Equal(t, locate.StatusNotFound, res.Status)
	assert.Equal(t, browsing.Context{Window: "w1"}, res.Context)
	assert.Empty(t, b.ActivePath(), "top-level document must be active after failure")
	// f4 is never entered.
	assert.NotContains(t, b.History, "frame:f4")
	assert.Contains(t, b.History, "frame:f3")
}

func TestFindFrameWith_foundAtDepthTwo(t *testing.T) {
	b := singleWindow(sharedtest.FrameChain(4, 2, blotterRoot))
	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, 3)

	require.True(t, res.Found(), res.String())
	assert.Equal(t, []string{"f1", "f2"}, frameIDs(res.Context))
	assert.Equal(t, []string{"f1", "f2"}, b.ActivePath())
	assert.Nil(t, res.Skipped)
}

func TestFindFrameWith_backtracksSiblings(t *testing.T) {
	// top
	// ├── nav > nav-inner
	// ├── grid-host > grid   (target)
	// └── footer
	top := sharedtest.NewDoc().
		WithFrame("nav", sharedtest.NewDoc().WithFrame("nav-inner", sharedtest.NewDoc())).
		WithFrame("grid-host", sharedtest.NewDoc().WithFrame("grid", sharedtest.NewDoc(blotterRoot))).
		WithFrame("footer", sharedtest.NewDoc())
	b := singleWindow(top)

	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, 3)
	require.True(t, res.Found())
	assert.Equal(t, []string{"grid-host", "grid"}, b.ActivePath())
	assert.Equal(t, []string{
		"window:w1", "default",
		"frame:nav", "frame:nav-inner", "parent", "parent",
		"frame:grid-host", "frame:grid",
	}, b.History)
	assert.Equal(t, 1, res.Context.Frames[0].Index)
}

func TestFindFrameWith_topLevelDocument(t *testing.T) {
	b := singleWindow(sharedtest.FrameChain(2, 0, blotterRoot))
	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, 3)
	require.True(t, res.Found())
	assert.True(t, res.Context.IsTopLevel())
	assert.NotContains(t, b.History, "frame:f1")
}

func TestFindFrameWith_zeroDepthSearchesTopOnly(t *testing.T) {
	b := singleWindow(sharedtest.FrameChain(1, 1, blotterRoot))
	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, 0)
	assert.False(t, res.Found())
	assert.NotContains(t, b.History, "frame:f1")

	res = locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, -2)
	assert.False(t, res.Found())
}

func TestFindFrameWith_skipsUnavailableFrames(t *testing.T) {
	top := sharedtest.NewDoc().
		WithFrame("closing", sharedtest.NewDoc(blotterRoot)).
		WithFrame("loading", sharedtest.NewDoc().WithFrame("inner", sharedtest.NewDoc(blotterRoot))).
		WithFrame("ready", sharedtest.NewDoc(blotterRoot))
	top.Frame("closing").Detached = true
	top.Frame("loading").Broken = true
	b := singleWindow(top)

	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, 3)
	require.True(t, res.Found(), res.String())
	assert.Equal(t, []string{"ready"}, frameIDs(res.Context))

	var skipped *shared.MultiError
	require.True(t, errors.As(res.Skipped, &skipped))
	assert.Equal(t, 2, skipped.Count())
	assert.ErrorIs(t, res.Skipped, browsing.ErrContextUnavailable)
	// The broken frame's subtree is not searched.
	assert.NotContains(t, b.History, "frame:inner")
}

func TestFindFrameWith_invalidSelectorFails(t *testing.T) {
	b := singleWindow(sharedtest.FrameChain(2, 2, blotterRoot))
	b.Invalid["##"] = true
	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, "##", 3)
	assert.Equal(t, locate.StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, browsing.ErrInvalidSelector)
	assert.Empty(t, b.ActivePath())
}

func TestFindFrameWith_idempotent(t *testing.T) {
	b := singleWindow(sharedtest.FrameChain(4, 2, blotterRoot))
	l := locate.NewFrameLocator(nil)
	ctx := sharedtest.NewTestContext()
	from := browsing.Context{Window: "w1"}

	first := l.FindFrameWith(ctx, b, from, blotterRoot, 3)
	second := l.FindFrameWith(ctx, b, from, blotterRoot, 3)
	require.True(t, first.Found())
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Context, second.Context)

	// Starting from the previous match re-uses it without a new descent.
	b.ResetHistory()
	third := l.FindFrameWith(ctx, b, first.Context, blotterRoot, 3)
	assert.Equal(t, first.Context, third.Context)
	assert.Equal(t, []string{"window:w1", "default", "frame:f1", "frame:f2"}, b.History)

	missing := l.FindFrameWith(ctx, b, from, "#missing", 3)
	again := l.FindFrameWith(ctx, b, from, "#missing", 3)
	assert.Equal(t, missing.Status, again.Status)
	assert.Equal(t, missing.Context, again.Context)
}

func TestFindFrameWith_staleStartingFrame(t *testing.T) {
	top := sharedtest.FrameChain(2, 2, blotterRoot)
	b := singleWindow(top)
	l := locate.NewFrameLocator(nil)
	ctx := sharedtest.NewTestContext()

	first := l.FindFrameWith(ctx, b, browsing.Context{Window: "w1"}, blotterRoot, 3)
	require.True(t, first.Found())

	// The shell rebuilds the screen: the old frames are gone.
	b.CloseWindow("w1")
	b.OpenWindow(&sharedtest.FakeWindow{Handle: "w1", Doc: sharedtest.FrameChain(3, 3, blotterRoot)})
	res := l.FindFrameWith(ctx, b, first.Context, blotterRoot, 3)
	require.True(t, res.Found(), res.String())
	assert.Equal(t, []string{"f1", "f2", "f3"}, frameIDs(res.Context))
	assert.Error(t, res.Skipped)
}

type noParentBrowser struct {
	*sharedtest.FakeBrowser
}

func (b noParentBrowser) SwitchToParent() error {
	return errors.New("parent frame switching not supported")
}

func TestFindFrameWith_replaysPathWhenParentSwitchFails(t *testing.T) {
	top := sharedtest.NewDoc().
		WithFrame("a", sharedtest.NewDoc().WithFrame("a1", sharedtest.NewDoc())).
		WithFrame("b", sharedtest.NewDoc(blotterRoot))
	fake := singleWindow(top)

	res := locate.NewFrameLocator(nil).FindFrameWith(sharedtest.NewTestContext(), noParentBrowser{fake}, browsing.Context{Window: "w1"}, blotterRoot, 3)
	require.True(t, res.Found(), res.String())
	assert.Equal(t, []string{"b"}, fake.ActivePath())
}

func TestWaitForFrameWith(t *testing.T) {
	top := sharedtest.FrameChain(2, -1, blotterRoot)
	b := singleWindow(top)
	p, clk := newStepPoller()
	clk.OnAfter = func(time.Time) {
		if len(clk.Sleeps) == 2 {
			top.Frame("f1").Doc.Frame("f2").Doc.Elements[blotterRoot] = &sharedtest.FakeElement{}
		}
	}

	res := locate.NewFrameLocator(p).WaitForFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, blotterRoot, 3, 10*time.Second)
	require.True(t, res.Found(), res.String())
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []string{"f1", "f2"}, b.ActivePath())

	res = locate.NewFrameLocator(p).WaitForFrameWith(sharedtest.NewTestContext(), b, browsing.Context{Window: "w1"}, "#never", 3, time.Second)
	assert.Equal(t, locate.StatusNotFound, res.Status)
	assert.Equal(t, time.Second, res.Elapsed)
	assert.Empty(t, b.ActivePath())
}
