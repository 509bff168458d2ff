package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"focuscrawl/internal/config"
	"focuscrawl/internal/crawler"
	"focuscrawl/internal/metrics"
	"focuscrawl/internal/seeds"
	"focuscrawl/internal/storage"
)

var Version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "crawl [query]",
	Short: "Focused web crawler that favours well-linked pages on unvisited domains",
	Long: `crawl starts from the results of a web search for the query (or from
explicit --seed URLs) and explores outward, always fetching the page with the
best relevance score: many inbound links, few pages visited on its domain.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml)")

	f := rootCmd.Flags()
	f.IntP("workers", "w", 128, "number of parallel crawl workers")
	f.Duration("robots-timeout", 500*time.Millisecond, "robots.txt time budget")
	f.Duration("fetch-timeout", 2*time.Second, "page fetch time budget")
	f.Float64("requests-per-host", 0, "max requests/sec to one host (0 = unlimited)")
	f.String("user-agent", "focuscrawl/0.1", "HTTP User-Agent string")
	f.Int("max-pages", 0, "stop after N visited pages (0 = until the frontier is empty)")
	f.StringSliceP("seed", "s", nil, "seed URL, repeatable (skips the search)")
	f.String("seed-file", "", "file with one seed URL per line")
	f.Int("seed-limit", 10, "max seeds taken from the search")
	f.String("log-file", "crawl.log", "crawl log path (empty disables)")
	f.String("sqlite", "", "SQLite database for crawl records (empty disables)")
	f.String("mongo-uri", "", "MongoDB URI for crawl records (empty disables)")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :2112")
	f.String("log-level", "info", "log level (debug|info|warn|error)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	config.SetupLogging(cfg.Log.Level)
	logrus.Infof("focuscrawl %s starting", Version)

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supplier, err := seedSupplier(cfg, query)
	if err != nil {
		return err
	}
	seedURLs, err := supplier.Seeds(ctx, query)
	if err != nil {
		return fmt.Errorf("fetch seed pages: %w", err)
	}
	if len(seedURLs) == 0 {
		return errors.New("no seed pages found")
	}

	sink, err := openSinks(ctx, cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logrus.WithError(err).Warn("closing crawl log sinks")
		}
	}()

	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		logrus.Infof("metrics on http://%s/metrics", cfg.Metrics.Addr)
		defer srv.Close()
	}

	c := crawler.New(crawler.OptionsFrom(cfg.Crawl), sink)
	st := c.Run(ctx, seedURLs)

	fmt.Println("------- FINAL STATS -------")
	fmt.Printf("Run    : %s\n", st.RunID)
	fmt.Printf("Crawled: %d pages\n", st.Visited)
	fmt.Printf("Found  : %d pages\n", st.Discovered)
	fmt.Printf("Queued : %d entries left\n", st.Frontier)
	fmt.Printf("Took   : %s\n", st.Duration.Round(time.Second))
	return nil
}

func seedSupplier(cfg *config.Config, query string) (seeds.Supplier, error) {
	switch {
	case len(cfg.Seeds.URLs) > 0:
		return seeds.Static(cfg.Seeds.URLs), nil
	case cfg.Seeds.File != "":
		return seeds.File(cfg.Seeds.File), nil
	case query == "":
		return nil, errors.New("a query or at least one --seed is required")
	}
	return &seeds.Search{
		URLTemplate: cfg.Seeds.SearchURL,
		Selector:    cfg.Seeds.SearchSelector,
		UserAgent:   cfg.Crawl.UserAgent,
		Limit:       cfg.Seeds.Limit,
	}, nil
}

func openSinks(ctx context.Context, out config.OutputConfig) (storage.Sink, error) {
	var sinks storage.Multi
	if out.LogFile != "" {
		sinks = append(sinks, storage.NewLogFile(out.LogFile, out.LogMaxSizeMB, out.LogMaxBackups))
	}
	if out.SQLitePath != "" {
		db, err := storage.NewSQLite(out.SQLitePath)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, db)
		logrus.Infof("database initialized: %s", out.SQLitePath)
	}
	if out.MongoURI != "" {
		m, err := storage.NewMongo(ctx, out.MongoURI)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, m)
		logrus.Info("mongo sink connected")
	}
	return sinks, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
