// Package config provides configuration loading and validation for talent-search.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Store backends
const (
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
)

// Config represents the service configuration that can be loaded from a JSON file.
// All fields are optional; environment variables override file values and
// defaults fill whatever is left.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Storage
	StoreBackend string `json:"store_backend,omitempty"` // "postgres" or "badger"
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL
	BadgerPath   string `json:"badger_path,omitempty"`   // Badger directory; empty means in-memory

	// Suggestions
	RedisURL           string `json:"redis_url,omitempty"`            // Enables the suggestion cache when set
	SuggestionCacheTTL string `json:"suggestion_cache_ttl,omitempty"` // e.g. "30s"

	// Maintenance
	RefreshInterval string `json:"refresh_interval,omitempty"` // e.g. "15m"; empty disables the scheduler

	// Seeding
	SeedWorkers int `json:"seed_workers,omitempty"` // Concurrent inserts during seeding
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:               8080,
		StoreBackend:       BackendPostgres,
		SuggestionCacheTTL: "30s",
		SeedWorkers:        8,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file at path, overlays the environment,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with any of PORT, STORE_BACKEND, DATABASE_URL,
// BADGER_PATH, REDIS_URL, SUGGESTION_CACHE_TTL, REFRESH_INTERVAL and
// SEED_WORKERS that getenv returns non-empty.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("SEED_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid SEED_WORKERS %q: %w", v, err)
		}
		c.SeedWorkers = n
	}

	strs := map[string]*string{
		"STORE_BACKEND":        &c.StoreBackend,
		"DATABASE_URL":         &c.DatabaseURL,
		"BADGER_PATH":          &c.BadgerPath,
		"REDIS_URL":            &c.RedisURL,
		"SUGGESTION_CACHE_TTL": &c.SuggestionCacheTTL,
		"REFRESH_INTERVAL":     &c.RefreshInterval,
	}
	for key, field := range strs {
		if v := getenv(key); v != "" {
			*field = v
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.SeedWorkers < 0 {
		return fmt.Errorf("config error: 'seed_workers' must be non-negative")
	}

	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
		}
	case BackendBadger:
	default:
		return fmt.Errorf("config error: 'store_backend' must be %q or %q, got %q", BackendPostgres, BackendBadger, c.StoreBackend)
	}

	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.RefreshEvery(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses SuggestionCacheTTL. Empty means zero.
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration("suggestion_cache_ttl", c.SuggestionCacheTTL)
}

// RefreshEvery parses RefreshInterval. Zero means the scheduler is off.
func (c *Config) RefreshEvery() (time.Duration, error) {
	return parseDuration("refresh_interval", c.RefreshInterval)
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid '%s' %q: %w", field, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: '%s' must be non-negative", field)
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.StoreBackend == "" {
		result.StoreBackend = defaults.StoreBackend
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.BadgerPath == "" {
		result.BadgerPath = defaults.BadgerPath
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.SuggestionCacheTTL == "" {
		result.SuggestionCacheTTL = defaults.SuggestionCacheTTL
	}
	if result.RefreshInterval == "" {
		result.RefreshInterval = defaults.RefreshInterval
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SeedWorkers == 0 {
		result.SeedWorkers = defaults.SeedWorkers
	}

	return result
}
