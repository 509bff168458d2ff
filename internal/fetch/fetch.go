// Package fetch is the page download client used by crawl workers.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"focuscrawl/internal/metrics"
)

// Response is a downloaded page. Size counts the bytes read, which is at
// most the client's body cap.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Size        int
}

// Client downloads pages with a per-call deadline.
type Client struct {
	http      *http.Client
	userAgent string
	timeout   time.Duration
	maxBytes  int64
}

// New returns a Client. A nil httpClient gets a fresh http.Client; the
// deadline always comes from timeout via the request context.
func New(httpClient *http.Client, userAgent string, timeout time.Duration, maxBytes int64) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:      httpClient,
		userAgent: userAgent,
		timeout:   timeout,
		maxBytes:  maxBytes,
	}
}

// Get downloads u. Error statuses are not failures: their bodies may still
// carry links. Transport errors and deadline overruns are returned wrapped.
func (c *Client) Get(ctx context.Context, u string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	metrics.BytesFetched.Add(float64(len(b)))
	metrics.PagesFetched.Inc()

	return &Response{
		URL:         u,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
		Size:        len(b),
	}, nil
}
