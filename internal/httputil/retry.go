// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the provider clients.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// transient failures. The delay doubles each attempt: 1 s, 2 s. Tests
// override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 2

// Transient reports whether an HTTP status code indicates a transient
// condition worth retrying: rate limiting or a server-side error.
func Transient(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// DoWithRetry executes the request produced by build and retries transient
// failures (network errors, timeouts, 429 and 5xx responses) with
// exponential backoff. build is called once per attempt so request bodies
// are always fresh.
//
// When maxRetries is 0 the default (2, so 3 attempts total) is used.
// Non-transient responses are returned immediately; the caller inspects
// the status. After exhausting retries the last transient response (or the
// last network error) is returned so the caller can convert it into a
// failure. If the context is cancelled during a backoff wait the function
// returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error), maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, doErr := client.Do(req.WithContext(ctx))
		if doErr == nil && !Transient(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries: surface the last outcome as-is.
		if attempt >= maxRetries {
			return resp, doErr
		}

		if doErr == nil {
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		backoff := RetryBaseDelay << attempt

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
