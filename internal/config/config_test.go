package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keep Load from picking up a developer's config.yaml or .env
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Crawl.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawl.RobotsTimeout)
	assert.Equal(t, 2*time.Second, cfg.Crawl.FetchTimeout)
	assert.Equal(t, int64(4<<20), cfg.Crawl.MaxBodyBytes)
	assert.Equal(t, 10, cfg.Seeds.Limit)
	assert.Equal(t, "crawl.log", cfg.Output.LogFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Seeds.URLs)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "crawl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawl:
  workers: 8
  fetch_timeout: 3s
seeds:
  urls: ["http://a.com/"]
log:
  level: debug
`), 0o644))

	t.Setenv("FOCUSCRAWL_CRAWL_MAX_PAGES", "50")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 0, "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--workers=4"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Crawl.Workers, "flag beats file")
	assert.Equal(t, 3*time.Second, cfg.Crawl.FetchTimeout)
	assert.Equal(t, 50, cfg.Crawl.MaxPages)
	assert.Equal(t, []string{"http://a.com/"}, cfg.Seeds.URLs)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Output.MongoURI)
	assert.Equal(t, "debug", cfg.Log.Level, "unset flag keeps file value")
}

func TestLoad_Invalid(t *testing.T) {
	dir := chdirTemp(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawl:\n  workers: 0\n"), 0o644))
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, "crawl.workers")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Crawl: CrawlConfig{
				Workers: 1, RobotsTimeout: time.Second, FetchTimeout: time.Second, MaxBodyBytes: 1,
			},
			Seeds: SeedsConfig{Limit: 1, SearchURL: "http://s/?q=%s"},
			Log:   LogConfig{Level: "info"},
		}
	}
	ok := base()
	require.NoError(t, validate(&ok))

	tests := map[string]func(*Config){
		"workers":    func(c *Config) { c.Crawl.Workers = 0 },
		"robots":     func(c *Config) { c.Crawl.RobotsTimeout = 0 },
		"fetch":      func(c *Config) { c.Crawl.FetchTimeout = -1 },
		"body":       func(c *Config) { c.Crawl.MaxBodyBytes = 0 },
		"rate":       func(c *Config) { c.Crawl.RequestsPerHost = -1 },
		"max pages":  func(c *Config) { c.Crawl.MaxPages = -1 },
		"limit":      func(c *Config) { c.Seeds.Limit = 0 },
		"search url": func(c *Config) { c.Seeds.SearchURL = "http://s/" },
		"log level":  func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			assert.Error(t, validate(&c))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	SetupLogging("warn")
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	SetupLogging("nonsense")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
