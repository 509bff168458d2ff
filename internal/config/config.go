package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FOCUSCRAWL"

// Config holds all runtime configuration parameters
type Config struct {
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Seeds   SeedsConfig   `mapstructure:"seeds"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

type CrawlConfig struct {
	Workers         int           `mapstructure:"workers"`
	RobotsTimeout   time.Duration `mapstructure:"robots_timeout"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	RequestsPerHost float64       `mapstructure:"requests_per_host"`
	UserAgent       string        `mapstructure:"user_agent"`
	MaxPages        int           `mapstructure:"max_pages"`
}

type SeedsConfig struct {
	URLs           []string `mapstructure:"urls"`
	File           string   `mapstructure:"file"`
	SearchURL      string   `mapstructure:"search_url"`
	SearchSelector string   `mapstructure:"search_selector"`
	Limit          int      `mapstructure:"limit"`
}

type OutputConfig struct {
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	MongoURI      string `mapstructure:"mongo_uri"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"workers":           "crawl.workers",
	"robots-timeout":    "crawl.robots_timeout",
	"fetch-timeout":     "crawl.fetch_timeout",
	"requests-per-host": "crawl.requests_per_host",
	"user-agent":        "crawl.user_agent",
	"max-pages":         "crawl.max_pages",
	"seed":              "seeds.urls",
	"seed-file":         "seeds.file",
	"seed-limit":        "seeds.limit",
	"log-file":          "output.log_file",
	"sqlite":            "output.sqlite_path",
	"mongo-uri":         "output.mongo_uri",
	"metrics-addr":      "metrics.addr",
	"log-level":         "log.level",
}

// Load reads configuration from defaults, an optional YAML file, a .env
// file, FOCUSCRAWL_* environment variables and finally flags, each layer
// overriding the previous one. An empty path searches ./config.yaml and
// ./configs/config.yaml.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("ignoring unreadable .env")
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("output.mongo_uri", envPrefix+"_OUTPUT_MONGO_URI", "MONGODB_URI"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.workers", 128)
	v.SetDefault("crawl.robots_timeout", 500*time.Millisecond)
	v.SetDefault("crawl.fetch_timeout", 2*time.Second)
	v.SetDefault("crawl.max_body_bytes", 4<<20)
	v.SetDefault("crawl.requests_per_host", 0.0)
	v.SetDefault("crawl.user_agent", "focuscrawl/0.1")
	v.SetDefault("crawl.max_pages", 0)

	v.SetDefault("seeds.urls", []string{})
	v.SetDefault("seeds.file", "")
	v.SetDefault("seeds.search_url", "https://html.duckduckgo.com/html/?q=%s")
	v.SetDefault("seeds.search_selector", "a.result__a")
	v.SetDefault("seeds.limit", 10)

	v.SetDefault("output.log_file", "crawl.log")
	v.SetDefault("output.log_max_size_mb", 10)
	v.SetDefault("output.log_max_backups", 3)
	v.SetDefault("output.sqlite_path", "")
	v.SetDefault("output.mongo_uri", "")

	v.SetDefault("metrics.addr", "")
	v.SetDefault("log.level", "info")
}

// validate checks that values are sensible
func validate(cfg *Config) error {
	if cfg.Crawl.Workers < 1 {
		return fmt.Errorf("crawl.workers must be >= 1")
	}
	if cfg.Crawl.RobotsTimeout <= 0 {
		return fmt.Errorf("crawl.robots_timeout must be > 0")
	}
	if cfg.Crawl.FetchTimeout <= 0 {
		return fmt.Errorf("crawl.fetch_timeout must be > 0")
	}
	if cfg.Crawl.MaxBodyBytes <= 0 {
		return fmt.Errorf("crawl.max_body_bytes must be > 0")
	}
	if cfg.Crawl.RequestsPerHost < 0 {
		return fmt.Errorf("crawl.requests_per_host must be >= 0")
	}
	if cfg.Crawl.MaxPages < 0 {
		return fmt.Errorf("crawl.max_pages must be >= 0")
	}
	if cfg.Seeds.Limit < 1 {
		return fmt.Errorf("seeds.limit must be >= 1")
	}
	if len(cfg.Seeds.URLs) == 0 && cfg.Seeds.File == "" && !strings.Contains(cfg.Seeds.SearchURL, "%s") {
		return fmt.Errorf("seeds.search_url must contain %%s when no seeds are given")
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// SetupLogging configures the global logrus logger.
func SetupLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
