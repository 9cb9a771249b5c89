// Package httputil provides the paced HTTP client used for static page
// fetches and input sanitization utilities.
package httputil

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// FetchTimeout bounds a single static page fetch.
const FetchTimeout = 15 * time.Second

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Client wraps an http.Client with a request pacer so series and search
// pages are not fetched faster than the site tolerates.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a hardened client allowing rps requests per second.
// rps <= 0 disables pacing.
func NewClient(rps int) *Client {
	return NewClientFrom(&http.Client{
		Timeout: FetchTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}, rps)
}

// NewClientFrom paces requests made through hc.
func NewClientFrom(hc *http.Client, rps int) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return &Client{http: hc, limiter: limiter}
}

// Get performs a paced GET request with browser-like headers.
// The caller must close the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if err := ValidateURL(url); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for request slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "el-GR,el;q=0.9,en;q=0.8")

	return c.http.Do(req)
}
