// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/merlin-qa/framefinder/locate"
)

func newWindowsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "List the open top-level windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer o.browser.Close()
			windows, err := o.browser.Windows()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HANDLE\tTITLE\tURL")
			for _, win := range windows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", win.Handle, win.Title, win.URL)
			}
			return w.Flush()
		},
	}
}

func newFindWindowCmd(o *options) *cobra.Command {
	var glob bool
	cmd := &cobra.Command{
		Use:   "find-window <text>",
		Short: "Activate the first window whose title or URL matches",
		Long: `Poll the open windows until one has a title or URL containing <text>
(case-insensitive), and activate it.

With --glob, <text> is a glob pattern matched against the whole title or URL,
e.g. "Historical*Blotter".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer o.browser.Close()
			m := locate.Containing(args[0])
			if glob {
				var err error
				if m, err = locate.Glob(args[0]); err != nil {
					return err
				}
			}
			res := o.session().FocusWindow(cmd.Context(), m)
			if err := resultErr(res, "window "+m.String()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", res.Window.Handle, res.Window.Title, res.Window.URL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&glob, "glob", false, "treat <text> as a glob pattern")
	return cmd
}

func newFindFrameCmd(o *options) *cobra.Command {
	var window string
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "find-frame <selector>",
		Short: "Activate the frame containing an element",
		Long: `Search the frames of the active window, depth first in document order
and up to --max-depth levels deep, for the one containing <selector>, and
print its path. Selectors starting with "/" or "(" are XPath, others CSS.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer o.browser.Close()
			if cmd.Flags().Changed("max-depth") {
				o.cfg.MaxFrameDepth = maxDepth
			}
			s := o.session()
			if err := focus(cmd, s, window); err != nil {
				return err
			}
			res := s.WaitForFrameWith(cmd.Context(), args[0])
			if err := resultErr(res, "frame with "+args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Context)
			return nil
		},
	}
	cmd.Flags().StringVar(&window, "window", "", "first activate the window whose title or URL contains this text")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 3, "deepest frame level searched")
	return cmd
}

func newWaitCmd(o *options) *cobra.Command {
	var window, frame, cond string
	cmd := &cobra.Command{
		Use:   "wait <selector>",
		Short: "Wait for an element to exist, be visible or be clickable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer o.browser.Close()
			s := o.session()
			if err := focus(cmd, s, window); err != nil {
				return err
			}
			if frame != "" {
				if err := resultErr(s.WaitForFrameWith(cmd.Context(), frame), "frame with "+frame); err != nil {
					return err
				}
			}
			if err := s.WaitFor(cmd.Context(), args[0], locate.Condition(cond), o.cfg.Timeouts.Element); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s in %s\n", args[0], cond, s.Current())
			return nil
		},
	}
	cmd.Flags().StringVar(&window, "window", "", "first activate the window whose title or URL contains this text")
	cmd.Flags().StringVar(&frame, "frame", "", "then activate the frame containing this selector")
	cmd.Flags().StringVar(&cond, "for", string(locate.Visible), "condition: exists, visible or clickable")
	return cmd
}

// focus activates the window containing text, if text is set.
func focus(cmd *cobra.Command, s *locate.Session, text string) error {
	if text == "" {
		return nil
	}
	return resultErr(s.FocusWindowContaining(cmd.Context(), text), fmt.Sprintf("window containing %q", text))
}

func resultErr(res locate.Result, what string) error {
	switch res.Status {
	case locate.StatusFound:
		return nil
	case locate.StatusFailed:
		return res.Err
	}
	return fmt.Errorf("%s: %w after %d attempt(s) in %s", what, errNotFound, res.Attempts, res.Elapsed)
}
