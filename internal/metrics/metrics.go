package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_pages_fetched_total",
		Help: "Total number of pages successfully fetched",
	})
	BytesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_bytes_fetched_total",
		Help: "Total bytes downloaded",
	})
	FetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_fetch_failures_total",
		Help: "Page fetches abandoned after a network error or timeout",
	})
	RobotsDisallowed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_robots_disallowed_total",
		Help: "Candidates abandoned because robots.txt forbids them",
	})
	Requeued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_frontier_requeued_total",
		Help: "Candidates pushed back by lazy re-validation",
	})
	StaleEntries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_frontier_stale_total",
		Help: "Frontier entries popped for pages already visited",
	})
	FrontierSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_frontier_entries",
		Help: "Entries currently in the frontier, stale ones included",
	})
	PagesDiscovered = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_pages_discovered",
		Help: "Distinct URLs in the page index",
	})
)

func init() {
	prometheus.MustRegister(
		PagesFetched, BytesFetched, FetchFailures, RobotsDisallowed,
		Requeued, StaleEntries, FrontierSize, PagesDiscovered,
	)
}

// Serve exposes /metrics on addr in the background. The returned server
// should be shut down by the caller.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Warn("metrics server")
		}
	}()
	return srv
}
