// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package sharedtest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/poll"
)

// FakeElement is the state of one selector in a FakeDocument.
type FakeElement struct {
	Hidden   bool
	Disabled bool
	Text     string
	Attrs    map[string]string
	// Count overrides the number of matches reported by Count. Zero means 1.
	Count int
}

// FakeDocument is a document with elements keyed by selector and child frames.
type FakeDocument struct {
	Elements map[string]*FakeElement
	Frames   []*FakeFrame
}

// FakeFrame is a frame hosting a document.
type FakeFrame struct {
	ID   string
	Name string
	Doc  *FakeDocument
	// Detached frames refuse to be entered, like a frame torn down during a
	// screen transition.
	Detached bool
	// Broken frames can be entered but every element query fails as
	// unavailable.
	Broken bool
}

// FakeWindow is a top-level window.
type FakeWindow struct {
	Handle string
	Title  string
	URL    string
	Doc    *FakeDocument
}

// NewDoc creates a document containing visible, enabled elements for each
// selector.
func NewDoc(selectors ...string) *FakeDocument {
	d := &FakeDocument{Elements: map[string]*FakeElement{}}
	for _, s := range selectors {
		d.Elements[s] = &FakeElement{}
	}
	return d
}

// WithFrame appends a child frame to d and returns d.
func (d *FakeDocument) WithFrame(id string, doc *FakeDocument) *FakeDocument {
	d.Frames = append(d.Frames, &FakeFrame{ID: id, Name: id, Doc: doc})
	return d
}

// Frame returns the child frame with the given ID, or nil.
func (d *FakeDocument) Frame(id string) *FakeFrame {
	for _, f := range d.Frames {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// FrameChain builds a linear chain of frames "f1" > "f2" > ... > "f<depth>"
// below a new top-level document and places selector in the document at
// depth at. at == 0 means the top-level document; at < 0 means nowhere.
func FrameChain(depth, at int, selector string) *FakeDocument {
	docs := make([]*FakeDocument, depth+1)
	for i := range docs {
		docs[i] = NewDoc()
	}
	for i := depth; i > 0; i-- {
		docs[i-1].WithFrame(fmt.Sprintf("f%d", i), docs[i])
	}
	if at >= 0 && at <= depth {
		docs[at].Elements[selector] = &FakeElement{}
	}
	return docs[0]
}

// FakeBrowser is an in-memory browsing.Browser. Like a WebDriver session it
// has a single active window and frame path, and Windows switches through
// every window while reading titles.
type FakeBrowser struct {
	windows []*FakeWindow
	active  *FakeWindow
	path    []*FakeFrame

	// Invalid selectors fail every query with browsing.ErrInvalidSelector.
	Invalid map[string]bool
	// OnClick runs after a successful click on the selector.
	OnClick map[string]func(*FakeBrowser)
	// WindowsErr, if set, is returned by the next Windows call.
	WindowsErr error

	// History records every switch, e.g. "window:w1", "default", "frame:f1",
	// "parent".
	History []string
	Clicks  []string
	Values  map[string]string
	Keys    []string
}

// NewFakeBrowser creates a browser with the given windows; the first one is
// active.
func NewFakeBrowser(windows ...*FakeWindow) *FakeBrowser {
	b := &FakeBrowser{
		windows: windows,
		Invalid: map[string]bool{},
		OnClick: map[string]func(*FakeBrowser){},
		Values:  map[string]string{},
	}
	if len(windows) > 0 {
		b.active = windows[0]
	}
	return b
}

// OpenWindow adds a window, as if the shell just opened it.
func (b *FakeBrowser) OpenWindow(w *FakeWindow) {
	b.windows = append(b.windows, w)
	if b.active == nil {
		b.active = w
	}
}

// CloseWindow removes a window. If it was active, no window is active.
func (b *FakeBrowser) CloseWindow(handle string) {
	for i, w := range b.windows {
		if w.Handle == handle {
			b.windows = append(b.windows[:i], b.windows[i+1:]...)
			if b.active == w {
				b.active = nil
				b.path = nil
			}
			return
		}
	}
}

// ActiveWindow returns the handle of the active window, or "".
func (b *FakeBrowser) ActiveWindow() string {
	if b.active == nil {
		return ""
	}
	return b.active.Handle
}

// ActivePath returns the IDs of the active frame path.
func (b *FakeBrowser) ActivePath() []string {
	ids := []string{}
	for _, f := range b.path {
		ids = append(ids, f.ID)
	}
	return ids
}

// ResetHistory clears History.
func (b *FakeBrowser) ResetHistory() {
	b.History = nil
}

func (b *FakeBrowser) doc() (*FakeDocument, error) {
	if b.active == nil {
		return nil, browsing.Unavailable("no active window", nil)
	}
	if len(b.path) == 0 {
		return b.active.Doc, nil
	}
	f := b.path[len(b.path)-1]
	if f.Broken || f.Detached {
		return nil, browsing.Unavailable("frame "+f.ID, nil)
	}
	return f.Doc, nil
}

func (b *FakeBrowser) element(selector string) (*FakeElement, error) {
	if b.Invalid[selector] {
		return nil, browsing.InvalidSelector(selector, nil)
	}
	d, err := b.doc()
	if err != nil {
		return nil, err
	}
	e, ok := d.Elements[selector]
	if !ok {
		return nil, browsing.NoSuchElement(selector)
	}
	return e, nil
}

func (b *FakeBrowser) Windows() ([]browsing.Window, error) {
	if err := b.WindowsErr; err != nil {
		b.WindowsErr = nil
		return nil, err
	}
	var out []browsing.Window
	for _, w := range b.windows {
		b.active = w
		b.path = nil
		b.History = append(b.History, "window:"+w.Handle)
		out = append(out, browsing.Window{Handle: w.Handle, Title: w.Title, URL: w.URL})
	}
	return out, nil
}

func (b *FakeBrowser) SwitchToWindow(handle string) error {
	b.History = append(b.History, "window:"+handle)
	for _, w := range b.windows {
		if w.Handle == handle {
			b.active = w
			b.path = nil
			return nil
		}
	}
	return browsing.Unavailable("window "+handle, nil)
}

func (b *FakeBrowser) SwitchToDefault() error {
	b.History = append(b.History, "default")
	if b.active == nil {
		return browsing.Unavailable("no active window", nil)
	}
	b.path = nil
	return nil
}

func (b *FakeBrowser) SwitchToParent() error {
	b.History = append(b.History, "parent")
	if len(b.path) > 0 {
		b.path = b.path[:len(b.path)-1]
	}
	return nil
}

func (b *FakeBrowser) SwitchToFrame(f browsing.Frame) error {
	b.History = append(b.History, "frame:"+f.ID)
	ff, ok := f.Ref.(*FakeFrame)
	if !ok {
		return errors.New("fake browser: foreign frame reference")
	}
	var parent *FakeDocument
	if b.active == nil {
		return browsing.Unavailable("no active window", nil)
	} else if len(b.path) == 0 {
		parent = b.active.Doc
	} else {
		parent = b.path[len(b.path)-1].Doc
	}
	for _, c := range parent.Frames {
		if c == ff {
			if ff.Detached {
				return browsing.Unavailable("frame "+ff.ID, nil)
			}
			b.path = append(b.path, ff)
			return nil
		}
	}
	return browsing.Unavailable("frame "+ff.ID+" is not a child of the active context", nil)
}

func (b *FakeBrowser) ChildFrames() ([]browsing.Frame, error) {
	d, err := b.doc()
	if err != nil {
		return nil, err
	}
	frames := make([]browsing.Frame, len(d.Frames))
	for i, f := range d.Frames {
		frames[i] = browsing.Frame{Index: i, ID: f.ID, Name: f.Name, Ref: f}
	}
	return frames, nil
}

func (b *FakeBrowser) ElementExists(selector string) (bool, error) {
	_, err := b.element(selector)
	if errors.Is(err, browsing.ErrNoSuchElement) {
		return false, nil
	}
	return err == nil, err
}

func (b *FakeBrowser) ElementDisplayed(selector string) (bool, error) {
	e, err := b.element(selector)
	if err != nil {
		return false, err
	}
	return !e.Hidden, nil
}

func (b *FakeBrowser) ElementEnabled(selector string) (bool, error) {
	e, err := b.element(selector)
	if err != nil {
		return false, err
	}
	return !e.Disabled, nil
}

func (b *FakeBrowser) Click(selector string) error {
	e, err := b.element(selector)
	if err != nil {
		return err
	}
	if e.Hidden || e.Disabled {
		return fmt.Errorf("element not interactable: %s: %w", selector, poll.ErrNotYetReady)
	}
	b.Clicks = append(b.Clicks, selector)
	if hook := b.OnClick[selector]; hook != nil {
		hook(b)
	}
	return nil
}

func (b *FakeBrowser) SetValue(selector, value string) error {
	if _, err := b.element(selector); err != nil {
		return err
	}
	b.Values[selector] = value
	return nil
}

func (b *FakeBrowser) SendKeys(keys string) error {
	b.Keys = append(b.Keys, keys)
	return nil
}

func (b *FakeBrowser) Text(selector string) (string, error) {
	e, err := b.element(selector)
	if err != nil {
		return "", err
	}
	return e.Text, nil
}

func (b *FakeBrowser) Attribute(selector, name string) (string, error) {
	e, err := b.element(selector)
	if err != nil {
		return "", err
	}
	return e.Attrs[name], nil
}

func (b *FakeBrowser) Count(selector string) (int, error) {
	e, err := b.element(selector)
	if errors.Is(err, browsing.ErrNoSuchElement) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	if e.Count > 0 {
		return e.Count, nil
	}
	return 1, nil
}

// String renders the active context, for test failure messages.
func (b *FakeBrowser) String() string {
	return b.ActiveWindow() + ":" + strings.Join(b.ActivePath(), ">")
}
