// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command framefinder runs the window, frame and readiness locators against
// a live trading shell, e.g.
//
//	framefinder --driver devtools find-window "Historical Trader Blotter"
//	framefinder find-frame '#HistoricalBlotter' --window Historical
//	framefinder wait '//button[normalize-space()="Login"]' --for clickable
//
// It exits with status 1 when a search is exhausted or a wait times out, and
// 2 on any other failure.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(connect, nil)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "framefinder:", err)
		os.Exit(exitCode(err))
	}
}
