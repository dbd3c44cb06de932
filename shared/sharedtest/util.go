// Copyright 2018 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package sharedtest

import (
	"context"
	"time"

	"github.com/merlin-qa/framefinder/shared"
	testingclock "k8s.io/utils/clock/testing"
)

// NewTestContext creates a new context.Context for small tests.
func NewTestContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, shared.DefaultLoggerCtxKey(), shared.NewNilLogger())
	return ctx
}

// StepClock is a fake clock whose After advances virtual time by the
// requested duration and fires immediately, so polls run without real delays.
type StepClock struct {
	*testingclock.FakeClock

	// Sleeps records every delay requested through After.
	Sleeps []time.Duration
	// OnAfter, if set, runs after time has advanced and before After returns.
	OnAfter func(now time.Time)
}

// NewStepClock returns a StepClock starting at a fixed instant.
func NewStepClock() *StepClock {
	return &StepClock{
		FakeClock: testingclock.NewFakeClock(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)),
	}
}

// After advances the clock by d and returns an already-fired channel.
func (c *StepClock) After(d time.Duration) <-chan time.Time {
	c.Sleeps = append(c.Sleeps, d)
	c.Step(d)
	if c.OnAfter != nil {
		c.OnAfter(c.Now())
	}
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}
