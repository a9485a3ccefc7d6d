// Package config loads the application configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	ListenAddr      string `yaml:"listen_addr"`
	HNBaseURL       string `yaml:"hn_base_url"`
	PageSize        int    `yaml:"page_size"`
	CacheTTLSec     int    `yaml:"cache_ttl_secs"`
	ListTimeoutSec  int    `yaml:"list_timeout_secs"`
	ItemTimeoutSec  int    `yaml:"item_timeout_secs"`
	ScrapeTimeout   int    `yaml:"scrape_timeout_secs"`
	WarmIntervalSec int    `yaml:"warm_interval_secs"` // 0 disables cache warming
	CommentLimit    int    `yaml:"comment_limit"`
	DBPath          string `yaml:"db_path"` // empty resolves to the XDG data dir
	LogLevel        string `yaml:"log_level"`
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		ListenAddr:      ":8080",
		HNBaseURL:       "https://hn.algolia.com/api/v1",
		PageSize:        20,
		CacheTTLSec:     60,
		ListTimeoutSec:  3,
		ItemTimeoutSec:  2,
		ScrapeTimeout:   10,
		WarmIntervalSec: 300,
		CommentLimit:    5,
		LogLevel:        "info",
	}
}

// Load reads a YAML config file and returns a validated Config. An
// empty path yields the defaults. Environment variables HN_SCOUT_CONFIG
// and HN_SCOUT_DB override the file path and db path respectively.
func Load(path string) (Config, error) {
	if envPath := os.Getenv("HN_SCOUT_CONFIG"); envPath != "" {
		path = envPath
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if envDB := os.Getenv("HN_SCOUT_DB"); envDB != "" {
		cfg.DBPath = envDB
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.HNBaseURL == "" {
		return fmt.Errorf("hn_base_url is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.CacheTTLSec <= 0 {
		return fmt.Errorf("cache_ttl_secs must be positive, got %d", c.CacheTTLSec)
	}
	if c.ListTimeoutSec <= 0 || c.ItemTimeoutSec <= 0 || c.ScrapeTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.WarmIntervalSec < 0 {
		return fmt.Errorf("warm_interval_secs must not be negative, got %d", c.WarmIntervalSec)
	}
	if c.CommentLimit <= 0 {
		return fmt.Errorf("comment_limit must be positive, got %d", c.CommentLimit)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Durations converted from their integer-second form.

func (c *Config) CacheTTL() time.Duration    { return time.Duration(c.CacheTTLSec) * time.Second }
func (c *Config) ListTimeout() time.Duration { return time.Duration(c.ListTimeoutSec) * time.Second }
func (c *Config) ItemTimeout() time.Duration { return time.Duration(c.ItemTimeoutSec) * time.Second }
func (c *Config) ScrapeDeadline() time.Duration {
	return time.Duration(c.ScrapeTimeout) * time.Second
}
func (c *Config) WarmInterval() time.Duration {
	return time.Duration(c.WarmIntervalSec) * time.Second
}
