package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Backend names accepted in CacheConfig.Backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all cinecache configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Cache CacheConfig `yaml:"cache"`
}

// APIConfig describes the remote movie API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"CINECACHE_BASE_URL"`
	APIKey  string        `yaml:"api_key" env:"CINECACHE_API_KEY"`
	Page    int           `yaml:"page" env:"CINECACHE_PAGE"`
	Timeout time.Duration `yaml:"timeout" env:"CINECACHE_TIMEOUT"`
}

// CacheConfig controls the local page cache.
// Backend is "file" (default) or "sqlite".
type CacheConfig struct {
	Backend         string        `yaml:"backend" env:"CINECACHE_CACHE_BACKEND"`
	Path            string        `yaml:"path" env:"CINECACHE_CACHE_PATH"`
	MaxAge          time.Duration `yaml:"max_age" env:"CINECACHE_CACHE_MAX_AGE"`
	JanitorInterval time.Duration `yaml:"janitor_interval" env:"CINECACHE_JANITOR_INTERVAL"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.themoviedb.org/3",
			Page:    1,
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:         BackendFile,
			Path:            "cinecache.json",
			MaxAge:          7 * 24 * time.Hour,
			JanitorInterval: time.Hour,
		},
	}
}

// Load reads a YAML config file, expands environment variables and applies
// CINECACHE_* overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(data)
}

// LoadOrDefault is Load, except a missing file yields the defaults with
// environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot use.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("config: cache path is empty")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api base_url is empty")
	}
	if c.API.Page <= 0 {
		return fmt.Errorf("config: page must be positive, got %d", c.API.Page)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", c.API.Timeout)
	}
	return nil
}
