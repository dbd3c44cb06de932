// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package poll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedule_Delay(t *testing.T) {
	fixed := Schedule{Interval: 500 * time.Millisecond}
	backoff := Schedule{Interval: 100 * time.Millisecond, Factor: 2, MaxInterval: time.Second}

	tests := []struct {
		name     string
		s        Schedule
		attempt  int
		elapsed  time.Duration
		timeout  time.Duration
		expected time.Duration
	}{
		{"fixed", fixed, 1, 0, 10 * time.Second, 500 * time.Millisecond},
		{"fixed later attempt", fixed, 7, 3 * time.Second, 10 * time.Second, 500 * time.Millisecond},
		{"clamped to remaining", fixed, 4, 9800 * time.Millisecond, 10 * time.Second, 200 * time.Millisecond},
		{"budget spent", fixed, 4, 10 * time.Second, 10 * time.Second, 0},
		{"overrun", fixed, 4, 11 * time.Second, 10 * time.Second, 0},
		{"zero timeout", fixed, 1, 0, 0, 0},
		{"default interval", Schedule{}, 1, 0, time.Minute, DefaultInterval},
		{"backoff first", backoff, 1, 0, time.Minute, 100 * time.Millisecond},
		{"backoff third", backoff, 3, 0, time.Minute, 400 * time.Millisecond},
		{"backoff capped", backoff, 10, 0, time.Minute, time.Second},
		{"backoff huge attempt", backoff, 5000, 0, time.Minute, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.s.Delay(tt.attempt, tt.elapsed, tt.timeout))
		})
	}
}
