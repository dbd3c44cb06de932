// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Driver names accepted in Config.Driver.
const (
	DriverSelenium   = "selenium"
	DriverDevTools   = "devtools"
	DriverPlaywright = "playwright"
)

// Timeouts groups the budgets used by the locators and page objects.
type Timeouts struct {
	Window  time.Duration `yaml:"window"`
	Element time.Duration `yaml:"element"`
	Data    time.Duration `yaml:"data"`
}

// SeleniumConfig describes how to reach (or start) a Selenium server.
type SeleniumConfig struct {
	Path             string `yaml:"path"`
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	ChromeDriverPath string `yaml:"chromedriver_path"`
}

// Config is the suite-level configuration, normally read from a YAML file.
type Config struct {
	Driver          string         `yaml:"driver"`
	DebuggerAddress string         `yaml:"debugger_address"`
	Timeouts        Timeouts       `yaml:"timeouts"`
	PollInterval    time.Duration  `yaml:"poll_interval"`
	MaxFrameDepth   int            `yaml:"max_frame_depth"`
	LogLevel        string         `yaml:"log_level"`
	Selenium        SeleniumConfig `yaml:"selenium"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSelenium,
		DebuggerAddress: "127.0.0.1:9222",
		Timeouts: Timeouts{
			Window:  10 * time.Second,
			Element: 10 * time.Second,
			Data:    15 * time.Second,
		},
		PollInterval:  500 * time.Millisecond,
		MaxFrameDepth: 3,
		LogLevel:      "info",
		Selenium: SeleniumConfig{
			Host: "localhost",
			Port: 4444,
		},
	}
}

// LoadConfig reads the YAML file at path over DefaultConfig. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	var errs []error
	switch c.Driver {
	case DriverSelenium, DriverDevTools, DriverPlaywright:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}
	if c.Timeouts.Window < 0 || c.Timeouts.Element < 0 || c.Timeouts.Data < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll_interval must be positive"))
	}
	if c.MaxFrameDepth < 0 {
		errs = append(errs, errors.New("max_frame_depth must not be negative"))
	}
	return NewMultiError(errs, "validating config")
}
