// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is an abstract logging interface that contains an intersection of
// logrus and testing.T style logging functionality.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

// LoggerCtxKey is a key for attaching a Logger to a context.Context.
type LoggerCtxKey struct{}

var lck = LoggerCtxKey{}

// DefaultLoggerCtxKey returns the default key where a logger instance should be
// stored in a context.Context object.
func DefaultLoggerCtxKey() LoggerCtxKey {
	return lck
}

// WithLogger is a strongly-typed setter for the logger value on the context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, DefaultLoggerCtxKey(), logger)
}

type nilLogger struct{}

var nl = nilLogger{}

func (l nilLogger) Debugf(format string, args ...interface{}) {}

func (l nilLogger) Errorf(format string, args ...interface{}) {}

func (l nilLogger) Infof(format string, args ...interface{}) {}

func (l nilLogger) Warningf(format string, args ...interface{}) {}

// NewNilLogger returns a new logger that silently ignores all Logger calls.
func NewNilLogger() Logger {
	return nl
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l logrusLogger) Warningf(format string, args ...interface{}) {
	l.entry.Warningf(format, args...)
}

// NewLogrusLogger wraps a logrus entry (and hence its fields) as a Logger.
// A nil entry logs through the logrus standard logger.
func NewLogrusLogger(entry *logrus.Entry) Logger {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return logrusLogger{entry: entry}
}

// NewConsoleLogger creates a logrus-backed Logger writing text lines to w at
// the given level ("debug", "info", "warning", "error").
func NewConsoleLogger(w io.Writer, level string) (Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return NewLogrusLogger(logrus.NewEntry(l)), nil
}

// WithField returns a logger that attaches key=value to every line, when the
// logger is logrus-backed. Other loggers are returned unchanged.
func WithField(logger Logger, key string, value interface{}) Logger {
	if l, ok := logger.(logrusLogger); ok {
		return logrusLogger{entry: l.entry.WithField(key, value)}
	}
	return logger
}

// GetLogger retrieves a non-nil Logger that is appropriate for use in ctx. If
// ctx does not provide a logger, then a nil-logger is returned.
func GetLogger(ctx context.Context) Logger {
	logger, ok := ctx.Value(DefaultLoggerCtxKey()).(Logger)
	if !ok || logger == nil {
		return NewNilLogger()
	}

	return logger
}
