// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pages holds page objects for the Merlin trading shell, built on
// locate.Session. They model selectors and waits only.
package pages

import (
	"fmt"
	"strings"
)

// xpathLiteral quotes s for use inside an XPath expression.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// byText selects elements with the given tag whose normalized text is one of
// texts.
func byText(tag string, texts ...string) string {
	conds := make([]string, len(texts))
	for i, t := range texts {
		conds[i] = fmt.Sprintf("normalize-space()=%s", xpathLiteral(t))
	}
	return fmt.Sprintf("//%s[%s]", tag, strings.Join(conds, " or "))
}
