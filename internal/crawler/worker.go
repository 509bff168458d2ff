package crawler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"focuscrawl/internal/frontier"
	"focuscrawl/internal/metrics"
	"focuscrawl/internal/parser"
	"focuscrawl/internal/storage"
)

// worker drains the frontier. Each Next call is one critical section that
// both checks for emptiness and pops, so exit decisions are never made on
// a stale view of the queue.
func (c *Crawler) worker(ctx context.Context, id int) {
	log := logrus.WithField("worker", id)
	log.Debug("worker started")

	for ctx.Err() == nil {
		e, verdict := c.state.Next()
		switch verdict {
		case frontier.Empty:
			log.Debug("frontier empty, exiting")
			return
		case frontier.Stale:
			metrics.StaleEntries.Inc()
			continue
		case frontier.Requeued:
			metrics.Requeued.Inc()
			continue
		}
		c.visit(ctx, id, e.URL)
	}
}

// visit runs one candidate through robots, claim, fetch and expansion.
// Only the robots check and the fetch block, and neither holds the state
// lock. It reports whether the page was crawled.
func (c *Crawler) visit(ctx context.Context, worker int, u string) bool {
	log := logrus.WithFields(logrus.Fields{"worker": worker, "url": u})

	if !c.gate.Allowed(ctx, u) {
		metrics.RobotsDisallowed.Inc()
		log.Debug("disallowed by robots.txt")
		return false
	}

	// another worker may have visited u while we were checking robots
	if !c.state.Claim(u) {
		return false
	}

	if err := c.gate.Wait(ctx, u); err != nil {
		log.WithError(err).Debug("rate limiter wait aborted")
		return false
	}
	resp, err := c.fetcher.Get(ctx, u)
	if err != nil {
		metrics.FetchFailures.Inc()
		log.WithError(err).Warn("error visiting page, moving on")
		return false
	}

	page := parser.Parse(u, resp.Body)
	rec, queued := c.state.Expand(u, page.Links)

	r := storage.Record{
		RunID:     c.runID,
		URL:       u,
		Title:     page.Title,
		Status:    resp.StatusCode,
		Size:      resp.Size,
		Depth:     rec.Depth,
		Score:     -rec.Rank,
		Links:     len(page.Links),
		Worker:    worker,
		CrawledAt: time.Now(),
	}
	if err := c.sink.Write(ctx, r); err != nil {
		log.WithError(err).Warn("crawl log write failed")
	}
	c.publish(c.state.Stats())

	log.WithFields(logrus.Fields{
		"depth":  rec.Depth,
		"score":  r.Score,
		"links":  len(page.Links),
		"queued": queued,
	}).Info("crawled page")
	return true
}
