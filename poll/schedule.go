// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package poll

import (
	"math"
	"time"
)

// Schedule decides how long to wait after an unsuccessful attempt.
type Schedule struct {
	// Interval is the delay after the first attempt.
	Interval time.Duration
	// Factor multiplies the delay after each further attempt. Values <= 1
	// keep the delay fixed.
	Factor float64
	// MaxInterval caps a growing delay. Zero means no cap.
	MaxInterval time.Duration
}

// Delay returns the wait after the given (1-based) attempt, given the time
// already spent and the overall budget. It never exceeds the remaining
// budget, and returns 0 once the budget is spent.
func (s Schedule) Delay(attempt int, elapsed, timeout time.Duration) time.Duration {
	remaining := timeout - elapsed
	if remaining <= 0 {
		return 0
	}
	d := s.Interval
	if d <= 0 {
		d = DefaultInterval
	}
	if s.Factor > 1 && attempt > 1 {
		grown := float64(d) * math.Pow(s.Factor, float64(attempt-1))
		if s.MaxInterval > 0 && grown > float64(s.MaxInterval) {
			grown = float64(s.MaxInterval)
		}
		if grown < math.MaxInt64 {
			d = time.Duration(grown)
		} else {
			d = time.Duration(math.MaxInt64)
		}
	}
	if d > remaining {
		d = remaining
	}
	return d
}
