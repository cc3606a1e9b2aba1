// Package config loads service configuration from ~/.lectio/config.yaml
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CacheConfig configures the HTTP service's response cache.
type CacheConfig struct {
	// DSN is the SQLite database path; empty disables caching.
	DSN string `yaml:"dsn"`
	// TTL is a Go duration string, e.g. "6h".
	TTL string `yaml:"ttl"`
}

// Config is the structure of ~/.lectio/config.yaml.
type Config struct {
	// Listen is the HTTP service address, e.g. ":8080".
	Listen string `yaml:"listen"`
	// BaseURL overrides the readings base address (mirrors, tests).
	BaseURL string `yaml:"base_url"`
	// AudioFeedURL overrides the daily readings podcast feed.
	AudioFeedURL string      `yaml:"audio_feed_url"`
	Cache        CacheConfig `yaml:"cache"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	return &Config{
		Listen: ":8080",
		Cache: CacheConfig{
			TTL: "6h",
		},
	}
}

// Load reads ~/.lectio/config.yaml (a missing file is not an error) and
// applies environment overrides: LECTIO_LISTEN, LECTIO_BASE_URL,
// LECTIO_AUDIO_FEED_URL, LECTIO_CACHE_DSN, LECTIO_CACHE_TTL, and PORT.
func Load() (*Config, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	path := filepath.Join(homeDir, ".lectio", "config.yaml")
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// loadFile merges a YAML config file into cfg. A nonexistent file is
// skipped; a file that exists but cannot be parsed is an error.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LECTIO_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Listen = ":" + v
	}
	if v := os.Getenv("LECTIO_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LECTIO_AUDIO_FEED_URL"); v != "" {
		cfg.AudioFeedURL = v
	}
	if v := os.Getenv("LECTIO_CACHE_DSN"); v != "" {
		cfg.Cache.DSN = v
	}
	if v := os.Getenv("LECTIO_CACHE_TTL"); v != "" {
		cfg.Cache.TTL = v
	}
}
