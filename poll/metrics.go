// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package poll

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSucceeded = "succeeded"
	outcomeTimedOut  = "timed_out"
	outcomeError     = "error"
)

var (
	attempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "framefinder",
		Subsystem: "poll",
		Name:      "attempts_total",
		Help:      "Predicate evaluations, by poller.",
	}, []string{"poller"})

	outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "framefinder",
		Subsystem: "poll",
		Name:      "outcomes_total",
		Help:      "Finished polls, by poller and outcome.",
	}, []string{"poller", "outcome"})

	durations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "framefinder",
		Subsystem: "poll",
		Name:      "duration_seconds",
		Help:      "Wall-clock time spent in a poll, by poller.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"poller"})
)

func observe(poller, outcome string, elapsed time.Duration) {
	outcomes.WithLabelValues(poller, outcome).Inc()
	durations.WithLabelValues(poller).Observe(elapsed.Seconds())
}
