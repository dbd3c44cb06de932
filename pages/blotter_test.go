// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/shared/sharedtest"
)

// blotterShell returns a shell whose blotter window nests the grid two frames
// deep, as the OpenFin layout does.
func blotterShell() (*sharedtest.FakeBrowser, *sharedtest.FakeDocument) {
	grid := sharedtest.NewDoc(blotterRoot, string(AllOwnership), string(MineOwnership), string(CreatedTimeHeader), sideFilterInput, dataRows)
	grid.Elements[dataRows].Count = nonDataRows
	layout := sharedtest.NewDoc().
		WithFrame("toolbar", sharedtest.NewDoc()).
		WithFrame("content", sharedtest.NewDoc().WithFrame("grid", grid))
	b := sharedtest.NewFakeBrowser(
		&sharedtest.FakeWindow{Handle: "dock", Title: "Merlin Dock", Doc: sharedtest.NewDoc()},
		&sharedtest.FakeWindow{Handle: "blotter", Title: "Historical Trader Blotter", Doc: layout},
	)
	return b, grid
}

func TestBlotterPage_isLoaded(t *testing.T) {
	b, _ := blotterShell()
	s, _ := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())

	ok, err := NewBlotterPage(s).IsLoaded(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"content", "grid"}, b.ActivePath())
}

func TestBlotterPage_notLoadedInOtherWindow(t *testing.T) {
	b, _ := blotterShell()
	s, _ := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Dock").Found())

	p := NewBlotterPage(s)
	ok, err := p.IsLoaded(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, p.Click(ctx, AllOwnership), ErrBlotterNotFound)
	assert.Empty(t, b.Clicks)
}

func TestBlotterPage_clickAndFilter(t *testing.T) {
	b, _ := blotterShell()
	s, _ := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())

	p := NewBlotterPage(s)
	require.NoError(t, p.Click(ctx, MineOwnership))
	require.NoError(t, p.Click(ctx, CreatedTimeHeader))
	require.NoError(t, p.FilterSide(ctx, "Sell"))

	assert.Equal(t, []string{string(MineOwnership), string(CreatedTimeHeader)}, b.Clicks)
	assert.Equal(t, "Sell", b.Values[sideFilterInput])
	assert.Equal(t, []string{browsing.EnterKey}, b.Keys)

	// Buttons the grid does not render time out.
	assert.Error(t, p.Click(ctx, USDCurrency))
}

func TestBlotterPage_dataRowCount(t *testing.T) {
	b, grid := blotterShell()
	s, _ := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())
	p := NewBlotterPage(s)

	n, err := p.DataRowCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	grid.Elements[dataRows].Count = 12
	n, err = p.DataRowCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestBlotterPage_waitForDataLoaded(t *testing.T) {
	b, grid := blotterShell()
	s, clk := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())
	clk.OnAfter = func(time.Time) {
		if len(clk.Sleeps) == 3 {
			grid.Elements[dataRows].Count = 5
		}
	}

	ok, err := NewBlotterPage(s).WaitForDataLoaded(ctx, 3, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, clk.Sleeps, 3)
}

func TestBlotterPage_waitForDataLoadedTimeout(t *testing.T) {
	b, _ := blotterShell()
	s, clk := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())

	ok, err := NewBlotterPage(s).WaitForDataLoaded(ctx, 1, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	// Falls back to the configured data timeout of 15s.
	assert.Len(t, clk.Sleeps, 30)
}

// withSideColumn renders a side column at aria-colindex 4 with one data row
// per value.
func withSideColumn(grid *sharedtest.FakeDocument, values ...string) {
	grid.Elements[columnHeader("side")] = &sharedtest.FakeElement{Attrs: map[string]string{"aria-colindex": "4"}}
	grid.Elements[dataRows].Count = nonDataRows + len(values)
	for i, v := range values {
		grid.Elements[columnCell(nonDataRows+1+i, "4")] = &sharedtest.FakeElement{Text: v}
	}
}

func TestColumnSelectors(t *testing.T) {
	assert.Equal(t, string(CreatedTimeHeader), columnHeader("created_time"))
	assert.Equal(t, "(//div[@role='row'][@aria-rowindex])[3]//div[@aria-colindex='4']", columnCell(3, "4"))
}

func TestBlotterPage_columnValues(t *testing.T) {
	b, grid := blotterShell()
	withSideColumn(grid, " Buy ", "BUY", "buy back")
	s, _ := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())
	p := NewBlotterPage(s)

	values, err := p.ColumnValues(ctx, "side")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy", "BUY", "buy back"}, values)

	ok, err := p.VerifyColumn(ctx, "side", ValueContains("buy"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.VerifyColumn(ctx, "side", func(v string) bool { return v == "Buy" })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlotterPage_verifyColumnEmptyGrid(t *testing.T) {
	b, grid := blotterShell()
	withSideColumn(grid)
	s, _ := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())

	ok, err := NewBlotterPage(s).VerifyColumn(ctx, "side", ValueContains("Sell"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlotterPage_columnValuesUnknownColumn(t *testing.T) {
	b, _ := blotterShell()
	s, _ := newSession(b)
	ctx := sharedtest.NewTestContext()
	require.True(t, s.FocusWindowContaining(ctx, "Historical").Found())
	p := NewBlotterPage(s)

	_, err := p.ColumnValues(ctx, "trader")
	assert.Error(t, err)

	// The created time header is rendered without an index.
	_, err = p.ColumnValues(ctx, "created_time")
	assert.ErrorContains(t, err, "no aria-colindex")
}
