// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/merlin-qa/framefinder/browsing"
	"github.com/merlin-qa/framefinder/devtools"
	"github.com/merlin-qa/framefinder/locate"
	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/pwdriver"
	"github.com/merlin-qa/framefinder/shared"
	"github.com/merlin-qa/framefinder/webdriver"
)

// endpointMaxInterval caps the delay between endpoint probes while the
// runtime starts.
const endpointMaxInterval = 2 * time.Second

// errNotFound marks an exhausted search.
var errNotFound = errors.New("not found")

func exitCode(err error) int {
	if errors.Is(err, errNotFound) || errors.Is(err, locate.ErrReadinessTimeout) {
		return 1
	}
	return 2
}

// driver is a connected provider.
type driver interface {
	browsing.Browser
	io.Closer
}

type connector func(ctx context.Context, cfg shared.Config) (driver, error)

// connect waits for the runtime's debugging endpoint, then attaches the
// configured driver to it.
func connect(ctx context.Context, cfg shared.Config) (driver, error) {
	p := poll.NewPoller(poll.WithInterval(cfg.PollInterval), poll.WithBackoff(2, endpointMaxInterval))
	v, err := devtools.WaitForEndpoint(ctx, p, cfg.DebuggerAddress, cfg.Timeouts.Window)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case shared.DriverSelenium:
		b, err := webdriver.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	case shared.DriverDevTools:
		b, err := devtools.Connect(ctx, v)
		if err != nil {
			return nil, err
		}
		return b, nil
	case shared.DriverPlaywright:
		b, err := pwdriver.Connect("http://" + cfg.DebuggerAddress)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}

// options holds the global flags and the state PersistentPreRunE builds
// from them. Commands close the browser when they finish.
type options struct {
	configPath      string
	driver          string
	debuggerAddress string
	timeout         time.Duration
	logLevel        string

	connect connector
	poller  *poll.Poller

	cfg     shared.Config
	logger  shared.Logger
	browser driver
}

// config loads the config file, if any, and applies the flags that were set.
func (o *options) config(cmd *cobra.Command) (shared.Config, error) {
	cfg := shared.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = shared.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = o.driver
	}
	if flags.Changed("debugger-address") {
		cfg.DebuggerAddress = o.debuggerAddress
	}
	if flags.Changed("timeout") {
		cfg.Timeouts.Window = o.timeout
		cfg.Timeouts.Element = o.timeout
		cfg.Timeouts.Data = o.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

func (o *options) session() *locate.Session {
	opts := []locate.SessionOption{locate.WithSessionLogger(o.logger)}
	if o.poller != nil {
		opts = append(opts, locate.WithPoller(o.poller))
	}
	return locate.NewSession(o.browser, o.cfg, opts...)
}

// newRootCmd builds the command tree. p, if non-nil, replaces the poller
// built from the config.
func newRootCmd(c connector, p *poll.Poller) *cobra.Command {
	o := &options{connect: c, poller: p}
	root := &cobra.Command{
		Use:           "framefinder",
		Short:         "Locate windows, frames and elements in a running trading shell",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			logger, err := shared.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			o.cfg, o.logger = cfg, logger
			ctx := shared.WithLogger(cmd.Context(), logger)
			if o.browser, err = o.connect(ctx, cfg); err != nil {
				return fmt.Errorf("connecting %s driver: %w", cfg.Driver, err)
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&o.driver, "driver", shared.DriverSelenium, "driver: selenium, devtools or playwright")
	flags.StringVar(&o.debuggerAddress, "debugger-address", "", "host:port of the runtime's remote debugging endpoint")
	flags.DurationVar(&o.timeout, "timeout", 0, "budget for each search or wait (overrides the config timeouts)")
	flags.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warning or error")

	root.AddCommand(
		newWindowsCmd(o),
		newFindWindowCmd(o),
		newFindFrameCmd(o),
		newWaitCmd(o),
	)
	return root
}
