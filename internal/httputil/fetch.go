// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

const fetchAttempts = 5

// ErrDisallowed is returned when the target site's robots policy forbids
// the fetch.
var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

// StatusError reports a non-retryable HTTP status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// Fetch performs a robots-aware GET with up to 5 attempts. On HTTP 429 it
// backs off exponentially (1 s base, doubling, plus up to 1 s of jitter)
// before retrying. Any other non-2xx status fails immediately with a
// *StatusError; transport errors abort without retry. When robots is nil
// the crawl-policy check is skipped.
func Fetch(ctx context.Context, client *http.Client, robots *RobotsCache, url, agent string) (*http.Response, error) {
	if robots != nil && !robots.Allowed(ctx, url, agent) {
		return nil, fmt.Errorf("%s: %w", url, ErrDisallowed)
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", agent)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		code := resp.StatusCode
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if code != http.StatusTooManyRequests {
			return nil, &StatusError{Code: code, URL: url}
		}
		if attempt >= fetchAttempts-1 {
			return nil, fmt.Errorf("rate limited after %d attempts: %w", fetchAttempts, &StatusError{Code: code, URL: url})
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		backoff += time.Duration(rand.Int63n(int64(RetryBaseDelay)))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
