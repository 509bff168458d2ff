// internal/crawler/engine.go
package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"focuscrawl/internal/fetch"
	"focuscrawl/internal/frontier"
	"focuscrawl/internal/hostman"
	"focuscrawl/internal/metrics"
	"focuscrawl/internal/storage"
)

// Stats summarises a finished crawl.
type Stats struct {
	frontier.Stats
	RunID    string
	Duration time.Duration
}

// Crawler owns the shared state of one crawl run and its collaborators.
type Crawler struct {
	opts    Options
	state   *frontier.State
	gate    Gate
	fetcher Fetcher
	sink    storage.Sink
	runID   string
}

// New wires a crawler with the robots gate and HTTP fetcher built from opts.
func New(opts Options, sink storage.Sink) *Crawler {
	opts.withDefaults()
	client := newHTTPClient(opts.Workers)
	return NewWith(opts,
		hostman.New(client, opts.UserAgent, opts.RequestsPerHost, opts.RobotsTimeout),
		fetch.New(client, opts.UserAgent, opts.FetchTimeout, opts.MaxBodyBytes),
		sink,
	)
}

// NewWith lets callers supply their own gate and fetcher.
func NewWith(opts Options, gate Gate, fetcher Fetcher, sink storage.Sink) *Crawler {
	opts.withDefaults()
	if sink == nil {
		sink = storage.Multi{}
	}
	return &Crawler{
		opts:    opts,
		state:   frontier.NewState(opts.MaxPages),
		gate:    gate,
		fetcher: fetcher,
		sink:    sink,
		runID:   uuid.NewString(),
	}
}

// State exposes the shared page index and frontier.
func (c *Crawler) State() *frontier.State { return c.state }

func (c *Crawler) RunID() string { return c.runID }

// Run records the seeds, visits each of them once in order, then drains the
// frontier with the worker pool until every worker has seen it empty (or
// ctx is cancelled).
func (c *Crawler) Run(ctx context.Context, seeds []string) Stats {
	start := time.Now()
	log := logrus.WithField("run", c.runID)

	// ----- Bootstrap ---------------------------------------------------------
	accepted := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if !c.state.Seed(s) {
			log.WithField("url", s).Warn("seed rejected (inadmissible or duplicate)")
			continue
		}
		accepted = append(accepted, s)
	}
	for _, s := range accepted {
		if ctx.Err() != nil {
			break
		}
		c.visit(ctx, 0, s)
	}
	log.WithFields(logrus.Fields{
		"seeds":    len(accepted),
		"frontier": c.state.Len(),
	}).Info("bootstrap done, starting workers")

	// ----- Workers -----------------------------------------------------------
	var wg sync.WaitGroup
	for i := 1; i <= c.opts.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.worker(ctx, id)
		}(i)
	}

	// ----- Stats ticker ------------------------------------------------------
	done := make(chan struct{})
	if c.opts.ProgressEvery > 0 {
		go c.progress(done, start)
	}

	wg.Wait()
	close(done)

	st := Stats{Stats: c.state.Stats(), RunID: c.runID, Duration: time.Since(start)}
	c.publish(st.Stats)
	log.WithFields(logrus.Fields{
		"visited":    st.Visited,
		"discovered": st.Discovered,
		"frontier":   st.Frontier,
		"queued":     st.TotalQueued,
		"elapsed":    st.Duration.Round(time.Millisecond),
	}).Info("crawl finished")
	return st
}

func (c *Crawler) progress(done <-chan struct{}, start time.Time) {
	ticker := time.NewTicker(c.opts.ProgressEvery)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case t := <-ticker.C:
			st := c.state.Stats()
			c.publish(st)
			logrus.WithFields(logrus.Fields{
				"minutes":  int(t.Sub(start).Minutes()),
				"crawled":  st.Visited,
				"frontier": st.Frontier,
			}).Info("progress")
		}
	}
}

func (c *Crawler) publish(st frontier.Stats) {
	metrics.FrontierSize.Set(float64(st.Frontier))
	metrics.PagesDiscovered.Set(float64(st.Discovered))
}
