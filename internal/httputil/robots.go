// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the robots-aware, rate-limited HTTP fetch shared
// by the source clients and the enricher.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsCache checks crawl permission against each site's robots.txt,
// fetching and parsing the policy once per host. A policy that cannot be
// fetched or parsed is treated as disallowing everything (fail closed).
type RobotsCache struct {
	Client *http.Client

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsCache returns a cache backed by client.
func NewRobotsCache(client *http.Client) *RobotsCache {
	return &RobotsCache{
		Client: client,
		hosts:  make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether agent may fetch rawURL under the target site's
// robots policy.
func (c *RobotsCache) Allowed(ctx context.Context, rawURL, agent string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	data, err := c.policy(ctx, u.Scheme, u.Host)
	if err != nil {
		return false
	}
	return data.TestAgent(u.Path, agent)
}

// policy returns the parsed robots data for host, fetching it on first use.
func (c *RobotsCache) policy(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	c.mu.Lock()
	data, ok := c.hosts[host]
	c.mu.Unlock()
	if ok {
		if data == nil {
			return nil, fmt.Errorf("robots.txt for %s previously unreadable", host)
		}
		return data, nil
	}

	data, err := c.fetch(ctx, scheme, host)

	c.mu.Lock()
	c.hosts[host] = data // nil on failure, so the host stays disallowed
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *RobotsCache) fetch(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	robotsURL := scheme + "://" + host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", robotsURL, err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", robotsURL, err)
	}
	return data, nil
}
