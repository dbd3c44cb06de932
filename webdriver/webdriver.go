// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/merlin-qa/framefinder/shared"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

var (
	startFrameBuffer = flag.Bool("frame_buffer", frameBufferDefault(), "Whether to use a frame buffer")
	seleniumPath     = flag.String("selenium_path", "", "Path to the selenium standalone binary.")
	seleniumHost     = flag.String("selenium_host", "localhost", "Host to run selenium on")
	seleniumPort     = flag.Int("selenium_port", 8888, "Port to run selenium on")
	debuggerAddress  = flag.String("debugger_address", "", "host:port of a running OpenFin runtime to attach to, instead of launching chrome")
)

func frameBufferDefault() bool {
	return runtime.GOOS != "darwin"
}

// GetWebDriver starts a Selenium server driving Chrome, or attached to the
// runtime at --debugger_address. OpenFin is Chromium based, so no other
// browser applies.
func GetWebDriver() (*selenium.Service, selenium.WebDriver, error) {
	return ChromeWebDriver()
}

func remoteURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d/wd/hub", host, port)
}

// Connect opens a session on the already running Selenium server described
// by cfg.Selenium and attaches it to the runtime at cfg.DebuggerAddress.
func Connect(cfg shared.Config) (*Browser, error) {
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{DebuggerAddr: cfg.DebuggerAddress})
	wd, err := selenium.NewRemote(caps, remoteURL(cfg.Selenium.Host, cfg.Selenium.Port))
	if err != nil {
		return nil, fmt.Errorf("connecting to selenium at %s:%d: %w", cfg.Selenium.Host, cfg.Selenium.Port, err)
	}
	return NewBrowser(wd), nil
}
