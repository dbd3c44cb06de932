// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package devtools

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/shared"
	"github.com/merlin-qa/framefinder/shared/sharedtest"
)

const versionJSON = `{
  "Browser": "Chrome/120.0.6099.71",
  "Protocol-Version": "1.3",
  "User-Agent": "Mozilla/5.0 OpenFin/35.120.78.25",
  "webSocketDebuggerUrl": "ws://127.0.0.1:9222/devtools/browser/5e4b"
}`

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"127.0.0.1:9222", "[::1]:9222"}, candidates("127.0.0.1:9222"))
	assert.Equal(t, []string{"localhost:9222", "[::1]:9222"}, candidates("localhost:9222"))
	assert.Equal(t, []string{"10.1.2.3:9222"}, candidates("10.1.2.3:9222"))
	assert.Equal(t, []string{"no-port"}, candidates("no-port"))
}

func TestWaitForEndpoint_becomesReady(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/version" {
			http.NotFound(w, r)
			return
		}
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(versionJSON))
	}))
	defer srv.Close()

	clk := sharedtest.NewStepClock()
	p := poll.NewPoller(poll.WithClock(clk))
	v, err := WaitForEndpoint(sharedtest.NewTestContext(), p, strings.TrimPrefix(srv.URL, "http://"), 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/5e4b", v.WebSocketDebuggerURL)
	assert.Equal(t, "1.3", v.ProtocolVersion)
	// The IPv6 fallback is probed alongside each failing IPv4 attempt.
	assert.Len(t, clk.Sleeps, 2)
}

func TestWaitForEndpoint_timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Browser": "Chrome"}`))
	}))
	defer srv.Close()

	clk := sharedtest.NewStepClock()
	p := poll.NewPoller(poll.WithClock(clk))
	addr := strings.TrimPrefix(srv.URL, "http://")
	_, err := WaitForEndpoint(sharedtest.NewTestContext(), p, addr, 2*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready after 2s")
	assert.Contains(t, err.Error(), "no webSocketDebuggerUrl")
}

func versionServer(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "starting", status)
			return
		}
		w.Write([]byte(versionJSON))
	}))
}

func TestProbe_collectsEveryFailure(t *testing.T) {
	a, b := versionServer(http.StatusServiceUnavailable), versionServer(http.StatusNotFound)
	defer a.Close()
	defer b.Close()

	addrs := []string{strings.TrimPrefix(a.URL, "http://"), strings.TrimPrefix(b.URL, "http://")}
	_, _, err := probe(sharedtest.NewTestContext(), http.DefaultClient, addrs)
	var multi *shared.MultiError
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, 2, multi.Count())
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "404")
}

func TestProbe_prefersListingOrder(t *testing.T) {
	down, first, second := versionServer(http.StatusServiceUnavailable), versionServer(http.StatusOK), versionServer(http.StatusOK)
	defer down.Close()
	defer first.Close()
	defer second.Close()

	addrs := []string{
		strings.TrimPrefix(down.URL, "http://"),
		strings.TrimPrefix(first.URL, "http://"),
		strings.TrimPrefix(second.URL, "http://"),
	}
	v, addr, err := probe(sharedtest.NewTestContext(), http.DefaultClient, addrs)
	require.NoError(t, err)
	assert.Equal(t, addrs[1], addr)
	assert.Equal(t, "Chrome/120.0.6099.71", v.Browser)
}
