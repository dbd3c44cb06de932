// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

var (
	chromeDriverPath = flag.String("chromedriver_path", "", "Path to the chromedriver binary")
	chromePath       = flag.String("chrome_path", "", "Path to the chrome binary")
)

// chromeCapabilities either attaches to the runtime at --debugger_address or
// launches the binary at --chrome_path.
func chromeCapabilities() chrome.Capabilities {
	if *debuggerAddress != "" {
		return chrome.Capabilities{DebuggerAddr: *debuggerAddress}
	}
	if *chromePath == "" {
		panic("--chrome_path not specified")
	}
	chromeAbsPath, err := filepath.Abs(*chromePath)
	if err != nil {
		panic(err)
	}
	return chrome.Capabilities{Path: chromeAbsPath}
}

// ChromeWebDriver starts up a Chrome WebDriver, attached to an OpenFin
// runtime when --debugger_address is set.
// Make sure to close both the service and the WebDriver instances, e.g.
//
// server, driver, err := ChromeWebDriver()
// if err != nil {
//   panic(e)
// }
// defer server.Stop()
// defer driver.Quit()
func ChromeWebDriver() (*selenium.Service, selenium.WebDriver, error) {
	if *seleniumPath == "" {
		panic("--selenium_path not specified")
	} else if *chromeDriverPath == "" {
		panic("--chromedriver_path not specified")
	}
	chromeCaps := chromeCapabilities()

	var options []selenium.ServiceOption
	// Start an X frame buffer for the browser to run in, unless attaching.
	if *startFrameBuffer && *debuggerAddress == "" {
		options = append(options, selenium.StartFrameBuffer())
	}
	options = append(options, selenium.ChromeDriver(*chromeDriverPath))
	// Output debug information to STDERR.
	options = append(options, selenium.Output(os.Stderr))

	service, err := selenium.NewSeleniumService(*seleniumPath, *seleniumPort, options...)
	if err != nil {
		panic(err)
	}

	seleniumCapabilities := selenium.Capabilities{
		"browserName": "chrome",
	}
	seleniumCapabilities.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(seleniumCapabilities, remoteURL(*seleniumHost, *seleniumPort))
	return service, wd, err
}
