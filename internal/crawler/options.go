package crawler

import (
	"context"
	"net/http"
	"time"

	"focuscrawl/internal/config"
	"focuscrawl/internal/fetch"
)

type Options struct {
	Workers         int
	RobotsTimeout   time.Duration
	FetchTimeout    time.Duration
	MaxBodyBytes    int64
	RequestsPerHost float64
	UserAgent       string
	MaxPages        int
	ProgressEvery   time.Duration // 0 disables the progress log
}

// OptionsFrom maps the crawl section of the configuration.
func OptionsFrom(c config.CrawlConfig) Options {
	return Options{
		Workers:         c.Workers,
		RobotsTimeout:   c.RobotsTimeout,
		FetchTimeout:    c.FetchTimeout,
		MaxBodyBytes:    c.MaxBodyBytes,
		RequestsPerHost: c.RequestsPerHost,
		UserAgent:       c.UserAgent,
		MaxPages:        c.MaxPages,
		ProgressEvery:   time.Minute,
	}
}

// Gate decides whether a URL may be fetched and paces requests per host.
type Gate interface {
	Allowed(ctx context.Context, url string) bool
	Wait(ctx context.Context, url string) error
}

// Fetcher downloads one page within its own deadline.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

func (o *Options) withDefaults() {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.RobotsTimeout <= 0 {
		o.RobotsTimeout = 500 * time.Millisecond
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 2 * time.Second
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 4 << 20
	}
}

// shared transport sized for the worker pool
func newHTTPClient(workers int) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConns = workers * 2
	tr.MaxIdleConnsPerHost = 4
	return &http.Client{Transport: tr}
}
