// Copyright 2024 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package devtools drives an OpenFin (Chromium) runtime directly over the
// Chrome DevTools Protocol, without a Selenium server.
package devtools

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/merlin-qa/framefinder/poll"
	"github.com/merlin-qa/framefinder/shared"
)

// Version is the /json/version document of a DevTools endpoint.
type Version struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// candidates returns the addresses to probe for addr. A runtime asked to
// listen on localhost may bind only the IPv6 loopback.
func candidates(addr string) []string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return []string{addr}
	}
	switch host {
	case "127.0.0.1", "localhost":
		return []string{addr, net.JoinHostPort("::1", port)}
	}
	return []string{addr}
}

func fetchVersion(ctx context.Context, client *http.Client, addr string) (*Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/json/version", nil)
	if err != nil {
		return nil, err
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", addr, res.Status)
	}
	var v Version
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: decoding version: %w", addr, err)
	}
	if v.WebSocketDebuggerURL == "" {
		return nil, fmt.Errorf("%s: no webSocketDebuggerUrl", addr)
	}
	return &v, nil
}

// probe fetches the version document from every address concurrently and
// returns the first success in addrs order, or a MultiError of all failures.
func probe(ctx context.Context, client *http.Client, addrs []string) (*Version, string, error) {
	versions := make([]*Version, len(addrs))
	errors := make(chan error, len(addrs))
	var wg sync.WaitGroup
	wg.Add(len(addrs))
	for i, a := range addrs {
		go func(i int, a string) {
			defer wg.Done()
			v, err := fetchVersion(ctx, client, a)
			if err != nil {
				errors <- err
				return
			}
			versions[i] = v
		}(i, a)
	}
	wg.Wait()
	close(errors)
	for i, v := range versions {
		if v != nil {
			return v, addrs[i], nil
		}
	}
	return nil, "", shared.NewMultiErrorFromChan(errors, "probing DevTools endpoint")
}

// WaitForEndpoint polls the DevTools endpoint at addr (host:port) until it
// answers, trying the IPv6 loopback too when addr is a local IPv4 address.
func WaitForEndpoint(ctx context.Context, p *poll.Poller, addr string, timeout time.Duration) (*Version, error) {
	if p == nil {
		p = poll.NewPoller()
	}
	logger := shared.GetLogger(ctx)
	client := &http.Client{Timeout: 2 * time.Second}
	out, err := poll.Poll(ctx, p.With(poll.WithName("devtools")), timeout, func(ctx context.Context) (*Version, bool, error) {
		v, a, err := probe(ctx, client, candidates(addr))
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", poll.ErrNotYetReady, err)
		}
		logger.Infof("DevTools endpoint ready at %s: %s", a, v.Browser)
		return v, true, nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Succeeded() {
		return nil, fmt.Errorf("devtools endpoint %s not ready after %s: %v", addr, timeout, out.LastErr)
	}
	return out.Value, nil
}
