// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
)

type fakeDoc struct {
	id       string
	elements map[string]int
	frames   []*fakeDoc
}

type fakeWindow struct {
	title, url string
	doc        *fakeDoc
}

// fakeWD implements the parts of selenium.WebDriver that Browser uses.
type fakeWD struct {
	selenium.WebDriver

	handles []string
	windows map[string]*fakeWindow
	current string
	path    []*fakeDoc
	calls   []string
	bys     []string
	keys    []string
}

type fakeElem struct {
	selenium.WebElement
	wd       *fakeWD
	frame    *fakeDoc
	selector string
}

func noSuch(what string) error {
	return &selenium.Error{Err: "no such " + what, Message: what + " not found"}
}

func (wd *fakeWD) doc() *fakeDoc {
	if len(wd.path) > 0 {
		return wd.path[len(wd.path)-1]
	}
	return wd.windows[wd.current].doc
}

func (wd *fakeWD) WindowHandles() ([]string, error) {
	return wd.handles, nil
}

func (wd *fakeWD) SwitchWindow(name string) error {
	wd.calls = append(wd.calls, "window:"+name)
	if _, ok := wd.windows[name]; !ok {
		return noSuch("window")
	}
	wd.current = name
	wd.path = nil
	return nil
}

func (wd *fakeWD) Title() (string, error) {
	return wd.windows[wd.current].title, nil
}

func (wd *fakeWD) CurrentURL() (string, error) {
	return wd.windows[wd.current].url, nil
}

func (wd *fakeWD) SwitchFrame(frame interface{}) error {
	switch f := frame.(type) {
	case nil:
		wd.calls = append(wd.calls, "default")
		wd.path = nil
		return nil
	case *fakeElem:
		wd.calls = append(wd.calls, "frame:"+f.frame.id)
		for _, c := range wd.doc().frames {
			if c == f.frame {
				wd.path = append(wd.path, c)
				return nil
			}
		}
		return noSuch("frame")
	case int:
		wd.calls = append(wd.calls, fmt.Sprintf("frame:%d", f))
		if frames := wd.doc().frames; f < len(frames) {
			wd.path = append(wd.path, frames[f])
			return nil
		}
		return noSuch("frame")
	}
	return fmt.Errorf("invalid type %T", frame)
}

func (wd *fakeWD) FindElements(by, value string) ([]selenium.WebElement, error) {
	wd.bys = append(wd.bys, by)
	if value == "!!" {
		return nil, &selenium.Error{Err: "invalid selector", Message: "bad"}
	}
	var out []selenium.WebElement
	if value == frameSelector {
		for _, f := range wd.doc().frames {
			out = append(out, &fakeElem{wd: wd, frame: f})
		}
		return out, nil
	}
	for i := 0; i < wd.doc().elements[value]; i++ {
		out = append(out, &fakeElem{wd: wd, selector: value})
	}
	return out, nil
}

func (wd *fakeWD) FindElement(by, value string) (selenium.WebElement, error) {
	elems, err := wd.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, noSuch("element")
	}
	return elems[0], nil
}

func (wd *fakeWD) ActiveElement() (selenium.WebElement, error) {
	return &fakeElem{wd: wd, selector: "active"}, nil
}

func (e *fakeElem) GetAttribute(name string) (string, error) {
	if name == "id" && e.frame != nil {
		return e.frame.id, nil
	}
	if name == "aria-colindex" && e.selector != "" {
		return "4", nil
	}
	// What the client reports for an attribute the element lacks.
	return "", errors.New("nil return value")
}

func (e *fakeElem) IsDisplayed() (bool, error) { return true, nil }
func (e *fakeElem) IsEnabled() (bool, error)   { return e.selector != "#disabled", nil }
func (e *fakeElem) Text() (string, error)      { return "text of " + e.selector, nil }
func (e *fakeElem) Clear() error               { return nil }

func (e *fakeElem) Click() error {
	e.wd.calls = append(e.wd.calls, "click:"+e.selector)
	return nil
}

func (e *fakeElem) SendKeys(keys string) error {
	e.wd.keys = append(e.wd.keys, e.selector+"="+keys)
	return nil
}

func blotterWD() *fakeWD {
	grid := &fakeDoc{id: "grid", elements: map[string]int{"#HistoricalBlotter": 1, "#disabled": 1}}
	content := &fakeDoc{id: "content", frames: []*fakeDoc{grid}}
	toolbar := &fakeDoc{id: "toolbar"}
	return &fakeWD{
		handles: []string{"dock", "gone", "blotter"},
		windows: map[string]*fakeWindow{
			"dock":    {title: "Merlin Dock", url: "http://localhost/", doc: &fakeDoc{}},
			"blotter": {title: "Historical Trader Blotter", url: "http://localhost/blotter", doc: &fakeDoc{frames: []*fakeDoc{toolbar, content}}},
		},
		current: "dock",
	}
}

func TestBrowser_windowsSkipsClosedWindows(t *testing.T) {
	wd := blotterWD()
	windows, err := NewBrowser(wd).Windows()
	require.NoError(t, err)
	assert.Equal(t, []browsing.Window{
		{Handle: "dock", Title: "Merlin Dock", URL: "http://localhost/"},
		{Handle: "blotter", Title: "Historical Trader Blotter", URL: "http://localhost/blotter"},
	}, windows)
}

func TestBrowser_framePathAndParent(t *testing.T) {
	wd := blotterWD()
	b := NewBrowser(wd)
	require.NoError(t, b.SwitchToWindow("blotter"))

	top, err := b.ChildFrames()
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "content", top[1].ID)
	assert.Equal(t, 1, top[1].Index)

	require.NoError(t, b.SwitchToFrame(top[1]))
	inner, err := b.ChildFrames()
	require.NoError(t, err)
	require.NoError(t, b.SwitchToFrame(inner[0]))
	assert.Equal(t, "grid", wd.doc().id)

	wd.calls = nil
	require.NoError(t, b.SwitchToParent())
	assert.Equal(t, "content", wd.doc().id)
	assert.Equal(t, []string{"default", "frame:content"}, wd.calls)

	require.NoError(t, b.SwitchToParent())
	assert.Equal(t, wd.windows["blotter"].doc, wd.doc())
	// Already at the top-level document.
	assert.NoError(t, b.SwitchToParent())
}

func TestBrowser_switchByIndex(t *testing.T) {
	wd := blotterWD()
	b := NewBrowser(wd)
	require.NoError(t, b.SwitchToWindow("blotter"))
	require.NoError(t, b.SwitchToFrame(browsing.Frame{Index: 1}))
	assert.Equal(t, "content", wd.doc().id)

	err := b.SwitchToFrame(browsing.Frame{Index: 5})
	assert.ErrorIs(t, err, browsing.ErrContextUnavailable)
}

func TestBrowser_activateAndQuery(t *testing.T) {
	wd := blotterWD()
	b := NewBrowser(wd)
	ctx := browsing.Context{Window: "blotter", Frames: []browsing.Frame{{Index: 1}, {Index: 0}}}
	require.NoError(t, browsing.Activate(b, ctx))

	ok, err := b.ElementExists("#HistoricalBlotter")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.ElementExists("//div[@id='missing']")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{selenium.ByCSSSelector, selenium.ByXPATH}, wd.bys)

	enabled, err := b.ElementEnabled("#disabled")
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = b.ElementDisplayed("#missing")
	assert.ErrorIs(t, err, browsing.ErrNoSuchElement)

	_, err = b.ElementExists("!!")
	assert.ErrorIs(t, err, browsing.ErrInvalidSelector)

	require.NoError(t, b.Click("#HistoricalBlotter"))
	require.NoError(t, b.SetValue("#HistoricalBlotter", "Buy"))
	require.NoError(t, b.SendKeys(browsing.EnterKey))
	assert.Equal(t, []string{"#HistoricalBlotter=Buy", "active=" + browsing.EnterKey}, wd.keys)

	text, err := b.Text("#HistoricalBlotter")
	require.NoError(t, err)
	assert.Equal(t, "text of #HistoricalBlotter", text)

	v, err := b.Attribute("#HistoricalBlotter", "aria-colindex")
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	v, err = b.Attribute("#HistoricalBlotter", "title")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = b.Attribute("#missing", "title")
	assert.ErrorIs(t, err, browsing.ErrNoSuchElement)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil, "x"))

	err := classify(&selenium.Error{Err: "stale element reference"}, "#grid")
	assert.ErrorIs(t, err, browsing.ErrContextUnavailable)
	assert.True(t, poll.IsTransient(err))

	err = classify(&selenium.Error{Err: "no such window"}, "window w1")
	assert.True(t, browsing.IsUnavailable(err))

	err = classify(&selenium.Error{Err: "element click intercepted"}, "#login")
	assert.True(t, poll.IsTransient(err))
	assert.False(t, browsing.IsUnavailable(err))

	// Legacy protocol errors only carry a message.
	err = classify(errors.New("invalid selector: Unable to locate an element with the xpath expression"), "//[")
	assert.ErrorIs(t, err, browsing.ErrInvalidSelector)

	sessionGone := errors.New("invalid session id")
	err = classify(sessionGone, "listing windows")
	assert.ErrorIs(t, err, sessionGone)
	assert.False(t, poll.IsTransient(err))
}
