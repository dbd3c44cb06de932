// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/locate"
	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/shared"
)

// Button is a clickable control of the Historical Trader Blotter.
type Button string

// Blotter buttons.
const (
	AllOwnership      Button = `#all-ownership-button, [data-testid="all-ownership-button"]`
	MineOwnership     Button = `#mine-ownership-button, [data-testid="mine-ownership-button"]`
	TeamOwnership     Button = `#team-ownership-button, [data-testid="team-ownership-button"]`
	CorpDesk          Button = `#CORP-traderDesk-button, [data-testid="CORP-traderDesk-button"]`
	AllStatus         Button = `#all-status-button, [data-testid="all-status-button"]`
	DoneStatus        Button = `#done-status-button, [data-testid="done-status-button"]`
	CoveredStatus     Button = `#covered-status-button, [data-testid="covered-status-button"]`
	EURCurrency       Button = `#EUR-currency-button, [data-testid="EUR-currency-button"]`
	GBPCurrency       Button = `#GBP-currency-button, [data-testid="GBP-currency-button"]`
	USDCurrency       Button = `#USD-currency-button, [data-testid="USD-currency-button"]`
	CreatedTimeHeader Button = `div[role="columnheader"][col-id="created_time"]`
)

const (
	blotterRoot     = `#HistoricalBlotter, [data-testid="HistoricalBlotter"]`
	sideFilterInput = `input[aria-label="B/S Filter Input"]`
	dataRows        = `div[role="row"][aria-rowindex]`

	// The header row and the floating filter row also carry aria-rowindex.
	nonDataRows = 2
)

// columnHeader selects the header of the column with the given col-id.
func columnHeader(colID string) string {
	return fmt.Sprintf(`div[role="columnheader"][col-id=%q]`, colID)
}

// columnCell selects the cell at colIndex in the row'th row carrying
// aria-rowindex, counting from 1 and including the non-data rows.
func columnCell(row int, colIndex string) string {
	return fmt.Sprintf("(//div[@role='row'][@aria-rowindex])[%d]//div[@aria-colindex=%s]", row, xpathLiteral(colIndex))
}

// ValueContains matches cell values containing want, ignoring case.
func ValueContains(want string) func(string) bool {
	want = strings.ToUpper(want)
	return func(v string) bool {
		return strings.Contains(strings.ToUpper(v), want)
	}
}

// ErrBlotterNotFound is returned when no frame of the current window holds
// the blotter.
var ErrBlotterNotFound = errors.New("historical blotter not found")

var ownership = map[string]Button{
	"all":  AllOwnership,
	"mine": MineOwnership,
	"team": TeamOwnership,
}

// OwnershipButton returns the ownership filter named name (all, mine or
// team), ignoring case.
func OwnershipButton(name string) (Button, error) {
	b, ok := ownership[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown ownership button: %s", name)
	}
	return b, nil
}

// BlotterPage is the Historical Trader Blotter screen.
type BlotterPage struct {
	s *locate.Session
}

// NewBlotterPage returns the blotter of s.
func NewBlotterPage(s *locate.Session) *BlotterPage {
	return &BlotterPage{s: s}
}

// SwitchToBlotterFrame activates the frame holding the blotter, searching
// from the session's current context.
func (p *BlotterPage) SwitchToBlotterFrame(ctx context.Context) (bool, error) {
	res := p.s.EnterFrameWith(ctx, blotterRoot)
	if res.Status == locate.StatusFailed {
		return false, res.Err
	}
	return res.Found(), nil
}

func (p *BlotterPage) enter(ctx context.Context) error {
	found, err := p.SwitchToBlotterFrame(ctx)
	if err != nil {
		return err
	} else if !found {
		return ErrBlotterNotFound
	}
	return nil
}

// IsLoaded reports whether the blotter and its ownership filters are present.
func (p *BlotterPage) IsLoaded(ctx context.Context) (bool, error) {
	found, err := p.SwitchToBlotterFrame(ctx)
	if err != nil || !found {
		return false, err
	}
	return p.s.Exists(string(AllOwnership))
}

// Click clicks button once it is clickable.
func (p *BlotterPage) Click(ctx context.Context, button Button) error {
	if err := p.enter(ctx); err != nil {
		return err
	}
	return p.s.Click(ctx, string(button))
}

// FilterSide types value into the B/S column filter and submits it.
func (p *BlotterPage) FilterSide(ctx context.Context, value string) error {
	if err := p.enter(ctx); err != nil {
		return err
	}
	if err := p.s.SetValue(ctx, sideFilterInput, value); err != nil {
		return err
	}
	return p.s.SendKeys(browsing.EnterKey)
}

// DataRowCount returns the number of data rows in the grid, excluding the
// header and filter rows.
func (p *BlotterPage) DataRowCount(ctx context.Context) (int, error) {
	if err := p.enter(ctx); err != nil {
		return 0, err
	}
	return p.rows()
}

func (p *BlotterPage) rows() (int, error) {
	n, err := p.s.Count(dataRows)
	if err != nil {
		return 0, err
	}
	if n -= nonDataRows; n < 0 {
		n = 0
	}
	return n, nil
}

// WaitForDataLoaded polls until the grid has at least minRows data rows. A
// non-positive timeout uses the configured data timeout. It reports false,
// with no error, on timeout.
func (p *BlotterPage) WaitForDataLoaded(ctx context.Context, minRows int, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		timeout = p.s.Config().Timeouts.Data
	}
	logger := shared.GetLogger(p.s.Context(ctx))
	out, err := poll.Poll(ctx, p.s.Poller("blotter-data"), timeout, func(ctx context.Context) (int, bool, error) {
		found, err := p.SwitchToBlotterFrame(ctx)
		if err != nil {
			return 0, false, err
		} else if !found {
			return 0, false, fmt.Errorf("%w: %v", poll.ErrNotYetReady, ErrBlotterNotFound)
		}
		n, err := p.rows()
		return n, n >= minRows, err
	})
	if err != nil {
		return false, err
	}
	if !out.Succeeded() {
		logger.Warningf("Timeout waiting for data to load (min %d rows)", minRows)
		return false, nil
	}
	logger.Infof("Data loaded with %d rows", out.Value)
	return true, nil
}

// ColumnValues returns the text of every data row's cell in the column with
// the given col-id, in row order.
func (p *BlotterPage) ColumnValues(ctx context.Context, colID string) ([]string, error) {
	if err := p.enter(ctx); err != nil {
		return nil, err
	}
	colIndex, err := p.s.Attribute(ctx, columnHeader(colID), "aria-colindex")
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", colID, err)
	} else if colIndex == "" {
		return nil, fmt.Errorf("column %s has no aria-colindex", colID)
	}
	n, err := p.rows()
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, n)
	for row := nonDataRows + 1; row <= nonDataRows+n; row++ {
		text, err := p.s.Text(ctx, columnCell(row, colIndex))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row-nonDataRows, err)
		}
		values = append(values, strings.TrimSpace(text))
	}
	return values, nil
}

// VerifyColumn reports whether every data row's value in the column with the
// given col-id satisfies match. An empty grid does not verify.
func (p *BlotterPage) VerifyColumn(ctx context.Context, colID string, match func(string) bool) (bool, error) {
	values, err := p.ColumnValues(ctx, colID)
	if err != nil {
		return false, err
	}
	logger := shared.GetLogger(p.s.Context(ctx))
	if len(values) == 0 {
		logger.Warningf("No data rows found to verify column %s", colID)
		return false, nil
	}
	for i, v := range values {
		if !match(v) {
			logger.Warningf("Row %d: value %q in column %s does not match", i+1, v, colID)
			return false, nil
		}
	}
	logger.Infof("All %d rows match in column %s", len(values), colID)
	return true, nil
}
