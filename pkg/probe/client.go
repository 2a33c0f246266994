/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

// Package probe checks that the external collaborators named by an environment
// record (the API server and the identity provider tenant) are reachable.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coffeeshop/spaenv/internal/version"
	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// isRetryableError checks if an error or status code should trigger a retry.
func isRetryableError(resp *resty.Response, err error) bool {
	if err != nil {
		return true // Network errors are generally transient
	}
	if resp == nil {
		return true
	}
	// Retry on server errors and rate limiting
	statusCode := resp.StatusCode()
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

// NewRetryClient creates a resty client with retry logic and a short timeout.
func NewRetryClient() *resty.Client {
	return resty.New().
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(4*time.Second).
		SetHeader("User-Agent", fmt.Sprintf("spaenv/%s", version.AppVersion)).
		AddRetryCondition(isRetryableError).
		AddRetryHook(func(resp *resty.Response, err error) {
			if err != nil {
				log.Debug().Msgf("Request failed with error, retrying: %v", err)
			} else if resp != nil {
				log.Debug().Msgf("Request failed with status %d, retrying...", resp.StatusCode())
			}
		})
}

// Client performs the reachability checks.
type Client struct {
	Resty *resty.Client
}

// NewClient creates a Client with the default retry policy.
func NewClient() *Client {
	return &Client{Resty: NewRetryClient()}
}

// Result of a single HTTP probe.
type Result struct {
	URL        string        // Probed URL.
	StatusCode int           // HTTP status of the final attempt.
	Latency    time.Duration // Wall-clock time including retries.
}

// String formats the result for humans, eg, 'HTTP 404 in 12.3 ms'.
func (r *Result) String() string {
	return fmt.Sprintf("HTTP %d in %s", r.StatusCode, FormatLatency(r.Latency))
}

// FormatLatency renders a duration with SI prefixes, eg, '12.3 ms'.
func FormatLatency(d time.Duration) string {
	return humanize.SIWithDigits(d.Seconds(), 1, "s")
}

// get performs a GET request and returns the response with timing.
func (c *Client) get(ctx context.Context, url string) (*resty.Response, *Result, error) {
	start := time.Now()
	resp, err := c.Resty.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	latency := time.Since(start)
	if err != nil {
		return nil, nil, fmt.Errorf("GET request to %s failed: %w", url, err)
	}
	result := &Result{URL: url, StatusCode: resp.StatusCode(), Latency: latency}
	log.Debug().Msgf("GET %s: %s", url, result)
	return resp, result, nil
}

// getJSON performs a GET request, requires a 2xx status, and decodes the body into T.
func getJSON[T any](ctx context.Context, c *Client, url string) (T, *Result, error) {
	var body T
	resp, result, err := c.get(ctx, url)
	if err != nil {
		return body, nil, err
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return body, result, fmt.Errorf("GET %s failed with status %d", url, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return body, result, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return body, result, nil
}
