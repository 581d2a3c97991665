// Package config loads application configuration from a YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/store"
)

// envPrefix namespaces environment variable overrides, e.g.
// NAIJAPULSE_DATABASE_HOST overrides database.host.
const envPrefix = "NAIJAPULSE"

// Config is the full application configuration.
type Config struct {
	App       AppConfig       `yaml:"app" mapstructure:"app"`
	Logger    logger.Config   `yaml:"logger" mapstructure:"logger"`
	Database  store.Config    `yaml:"database" mapstructure:"database"`
	Scraper   ScraperConfig   `yaml:"scraper" mapstructure:"scraper"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer" mapstructure:"analyzer"`
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
}

// AppConfig identifies the running application.
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// ScraperConfig tunes the scrape cycle.
type ScraperConfig struct {
	// MaxConcurrency bounds the number of sources scraped in parallel.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	// UserAgent is sent with every outbound request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// BackfillLimit bounds the end-of-cycle analysis backfill.
	BackfillLimit int `yaml:"backfill_limit" mapstructure:"backfill_limit"`
}

// AnalyzerConfig points at the sentiment and topic model service.
type AnalyzerConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SchedulerConfig holds the scheduler timings.
type SchedulerConfig struct {
	// CronSpec is the 5-field cron expression for scheduled scrape cycles.
	CronSpec string `yaml:"cron_spec" mapstructure:"cron_spec"`
	// TrendingEvery is the interval between trending topic recomputes.
	TrendingEvery time.Duration `yaml:"trending_every" mapstructure:"trending_every"`
	// TrendingWindow is the recency window for trending scores.
	TrendingWindow time.Duration `yaml:"trending_window" mapstructure:"trending_window"`
}

// Validate checks the configuration for the fields every command needs.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Analyzer.BaseURL == "" {
		return errors.New("analyzer.base_url is required")
	}
	if c.Scraper.MaxConcurrency < 0 {
		return fmt.Errorf("scraper.max_concurrency must not be negative, got %d", c.Scraper.MaxConcurrency)
	}
	return nil
}

// Load reads configuration from the given file, or from config.yaml in the
// working directory when path is empty. A .env file, if present, is loaded
// first; environment variables override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults plus env cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "naijapulse")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.outputpaths", []string{"stdout"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "naijapulse")
	v.SetDefault("database.dbname", "naijapulse")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("scraper.max_concurrency", 4)
	v.SetDefault("scraper.user_agent", "naijapulse/1.0")
	v.SetDefault("scraper.backfill_limit", 50)

	v.SetDefault("analyzer.base_url", "http://localhost:8000")
	v.SetDefault("analyzer.timeout", 10*time.Second)

	v.SetDefault("scheduler.cron_spec", "*/30 * * * *")
	v.SetDefault("scheduler.trending_every", 15*time.Minute)
	v.SetDefault("scheduler.trending_window", 24*time.Hour)
}
