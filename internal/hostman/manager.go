package hostman

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// robots.txt rules are evaluated for this agent
const wildcardAgent = "*"

// HostInfo stores crawl policy & limiter for one site root.
type HostInfo struct {
	robots  *robotstxt.RobotsData // nil if fetch failed or no robots file
	limiter *rate.Limiter         // per-host token bucket
	fetched bool                  // robots.txt attempted
}

// Gate is the politeness check: robots.txt per site root, fetched once
// and shared, plus an optional request rate per host.
type Gate struct {
	mu        sync.RWMutex
	hosts     map[string]*HostInfo
	flight    singleflight.Group
	client    *http.Client
	userAgent string
	rps       float64       // requests per second, <= 0 means unlimited
	timeout   time.Duration // robots.txt budget
}

// New returns a ready Gate. A nil client means http.DefaultClient.
func New(client *http.Client, ua string, rps float64, robotsTimeout time.Duration) *Gate {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gate{
		hosts:     make(map[string]*HostInfo),
		client:    client,
		userAgent: ua,
		rps:       rps,
		timeout:   robotsTimeout,
	}
}

// Allowed reports whether rawURL may be fetched. Any failure to obtain or
// parse robots.txt within the timeout permits the fetch.
func (g *Gate) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	robots := g.rules(ctx, siteRoot(u))
	if robots == nil {
		return true
	}
	return robots.FindGroup(wildcardAgent).Test(requestPath(u))
}

// Wait blocks on the host's token bucket.
func (g *Gate) Wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return g.info(siteRoot(u)).limiter.Wait(ctx)
}

// Hosts returns how many site roots the gate has seen.
func (g *Gate) Hosts() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.hosts)
}

func (g *Gate) info(root string) *HostInfo {
	g.mu.RLock()
	h, ok := g.hosts[root]
	g.mu.RUnlock()
	if ok {
		return h
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.hosts[root]; ok {
		return h
	}
	h = &HostInfo{limiter: newLimiter(g.rps)}
	g.hosts[root] = h
	return h
}

func (g *Gate) rules(ctx context.Context, root string) *robotstxt.RobotsData {
	h := g.info(root)

	g.mu.RLock()
	fetched, robots := h.fetched, h.robots
	g.mu.RUnlock()
	if fetched {
		return robots
	}

	// concurrent first lookups of one root share a single download
	v, _, _ := g.flight.Do(root, func() (any, error) {
		g.mu.RLock()
		fetched, robots := h.fetched, h.robots
		g.mu.RUnlock()
		if fetched {
			return robots, nil
		}

		robots = g.fetchRobots(ctx, root)

		g.mu.Lock()
		h.robots = robots
		h.fetched = true
		g.mu.Unlock()
		return robots, nil
	})
	robots, _ = v.(*robotstxt.RobotsData)
	return robots
}

// --- helpers -------------------------------------------------------------

func (g *Gate) fetchRobots(ctx context.Context, root string) *robotstxt.RobotsData {
	robotsURL := root + "/robots.txt"
	log := logrus.WithField("url", robotsURL)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		log.WithError(err).Debug("robots request")
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).Debug("robots fetch failed, allowing")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil // treat as no robots file
	}

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.WithError(err).Debug("robots parse failed, allowing")
		return nil
	}
	return robots
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func siteRoot(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

func requestPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}
