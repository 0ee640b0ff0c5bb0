// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package providers implements the gateway to the third-party research APIs
// (Ref, Exa, Jina, Perplexity). Every operation returns a uniform
// types.APIResult and never propagates a transport error: HTTP failures,
// timeouts and malformed responses are all folded into a failed result with
// a descriptive error string. Transient transport failures are retried with
// bounded exponential backoff before giving up.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Client holds the caller-supplied credentials and shared transport for all
// provider operations. The underlying http.Client is safe for concurrent
// use; per-operation deadlines come from the context, not the transport.
type Client struct {
	refKey        string
	exaKey        string
	jinaKey       string
	perplexityKey string

	http *http.Client
	cfg  types.ProviderConfig
	log  *zap.Logger
}

// NewClient builds a provider gateway from the four credentials and config.
// Zero config fields fall back to defaults.
func NewClient(refKey, exaKey, jinaKey, perplexityKey string, cfg types.ProviderConfig, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 45 * time.Second
	}
	if cfg.OverviewTimeout <= 0 {
		cfg.OverviewTimeout = 90 * time.Second
	}
	if cfg.SynthesisTimeout <= 0 {
		cfg.SynthesisTimeout = 120 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "research-agent/0.1"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		refKey:        refKey,
		exaKey:        exaKey,
		jinaKey:       jinaKey,
		perplexityKey: perplexityKey,
		http:          &http.Client{},
		cfg:           cfg,
		log:           log,
	}
}

// doJSON executes the request produced by build with bounded retry and
// decodes the 200 response body into out. Any other outcome is returned as
// an error for the caller to fold into a failed APIResult.
func (c *Client) doJSON(ctx context.Context, timeout time.Duration, build func() (*http.Request, error), out any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, func() (*http.Request, error) {
		req, err := build()
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		return req, nil
	}, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// postJSON returns a request builder that POSTs body as JSON each attempt.
// The body is marshaled once; each attempt reads it from the start so
// retries never send a consumed body.
func postJSON(url string, body any, headers map[string]string) (func() (*http.Request, error), error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	return func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}, nil
}

// failure converts an operation error into a failed APIResult.
func (c *Client) failure(source types.Source, err error) types.APIResult {
	c.log.Warn("provider call failed",
		zap.String("source", string(source)),
		zap.Error(err))
	return types.APIResult{Source: source, Success: false, Error: err.Error()}
}

// itemURLs extracts the URL list from search items, preserving order and
// skipping entries without one. Missing fields mean no URLs, never an error.
func itemURLs(items []types.SearchItem) []string {
	var urls []string
	for _, it := range items {
		if it.URL != "" {
			urls = append(urls, it.URL)
		}
	}
	return urls
}
