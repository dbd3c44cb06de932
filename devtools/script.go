// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package devtools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/merlin-qa/framefinder/browsing"
)

// Operations understood by pageScript.
const (
	opPing      = "ping"
	opFrames    = "frames"
	opCount     = "count"
	opDisplayed = "displayed"
	opEnabled   = "enabled"
	opClick     = "click"
	opSetValue  = "setValue"
	opText      = "text"
	opAttribute = "attribute"
)

// pageScript resolves a frame index path from the top-level document and
// runs one operation in the resulting document. Frames are reached through
// contentDocument, so only same-origin frames are addressable.
const pageScript = `function (c) {
  var doc = document;
  for (var i = 0; i < c.path.length; i++) {
    var f = doc.querySelectorAll('iframe, frame')[c.path[i]];
    if (!f) return {error: 'no such frame'};
    try { doc = f.contentDocument; } catch (e) { doc = null; }
    if (!doc || !doc.documentElement) return {error: 'no such frame'};
  }
  if (c.op === 'ping') return {};
  if (c.op === 'frames') {
    return {frames: Array.prototype.map.call(doc.querySelectorAll('iframe, frame'), function (f) {
      return {id: f.id || '', name: f.name || ''};
    })};
  }
  var els = [];
  try {
    if (c.xpath) {
      var r = doc.evaluate(c.selector, doc, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
      for (var j = 0; j < r.snapshotLength; j++) els.push(r.snapshotItem(j));
    } else {
      els = Array.prototype.slice.call(doc.querySelectorAll(c.selector));
    }
  } catch (e) {
    return {error: 'invalid selector', message: String(e)};
  }
  if (c.op === 'count') return {count: els.length};
  var el = els[0];
  if (!el) return {error: 'no such element'};
  var view = doc.defaultView;
  switch (c.op) {
  case 'displayed':
    var s = view.getComputedStyle(el);
    return {ok: s.visibility !== 'hidden' && s.display !== 'none' && el.getClientRects().length > 0};
  case 'enabled':
    return {ok: !el.disabled};
  case 'click':
    el.scrollIntoView({block: 'center'});
    el.click();
    return {};
  case 'setValue':
    el.focus();
    el.value = c.value;
    el.dispatchEvent(new view.Event('input', {bubbles: true}));
    el.dispatchEvent(new view.Event('change', {bubbles: true}));
    return {};
  case 'text':
    return {text: el.innerText !== undefined ? el.innerText : el.textContent};
  case 'attribute':
    return {text: el.getAttribute(c.value) || ''};
  }
  return {error: 'unknown operation ' + c.op};
}`

type call struct {
	Path     []int  `json:"path"`
	Op       string `json:"op"`
	Selector string `json:"selector,omitempty"`
	XPath    bool   `json:"xpath,omitempty"`
	Value    string `json:"value,omitempty"`
}

type frameInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type result struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Count   int         `json:"count"`
	OK      bool        `json:"ok"`
	Text    string      `json:"text"`
	Frames  []frameInfo `json:"frames"`
}

// expression returns the script evaluating c.
func expression(c call) (string, error) {
	if c.Path == nil {
		c.Path = []int{}
	}
	c.XPath = browsing.IsXPath(c.Selector)
	arg, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s)(%s)", pageScript, arg), nil
}

// err maps the script's error report onto the browsing error kinds.
func (r result) err(what string) error {
	switch r.Error {
	case "":
		return nil
	case "no such frame":
		return browsing.Unavailable(what, nil)
	case "no such element":
		return browsing.NoSuchElement(what)
	case "invalid selector":
		return browsing.InvalidSelector(what, errors.New(r.Message))
	}
	return fmt.Errorf("%s: %s", what, r.Error)
}
