// Package config loads service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	HTTPAddr         string
	PostgresDSN      string
	ClickhouseDSN    string
	RedisURL         string
	UseMemory        bool
	CacheTTL         time.Duration
	LogLevel         string
	LogFormat        string
	TransitInterval  time.Duration
	BatchConcurrency int
	TimezoneLookup   bool
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		HTTPAddr:         ":8080",
		CacheTTL:         24 * time.Hour,
		LogLevel:         "info",
		LogFormat:        "json",
		TransitInterval:  10 * time.Second,
		BatchConcurrency: 8,
		TimezoneLookup:   true,
	}
}

// FromEnv loads .env from the working directory if present (existing
// variables win) and reads the configuration from the environment.
func FromEnv() (Config, error) {
	return Load(".env")
}

// Load is FromEnv with an explicit .env path. A missing file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	var err error

	cfg.HTTPAddr = str("HTTP_ADDR", cfg.HTTPAddr)
	cfg.PostgresDSN = str("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.ClickhouseDSN = str("CLICKHOUSE_DSN", cfg.ClickhouseDSN)
	cfg.RedisURL = str("REDIS_URL", cfg.RedisURL)
	cfg.LogLevel = str("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = str("LOG_FORMAT", cfg.LogFormat)

	if cfg.UseMemory, err = boolean("USE_MEMORY", cfg.UseMemory); err != nil {
		return Config{}, err
	}
	if cfg.TimezoneLookup, err = boolean("TIMEZONE_LOOKUP", cfg.TimezoneLookup); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = duration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.TransitInterval, err = duration("TRANSIT_INTERVAL", cfg.TransitInterval); err != nil {
		return Config{}, err
	}
	if cfg.BatchConcurrency, err = integer("BATCH_CONCURRENCY", cfg.BatchConcurrency); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be >= 1, got %d", c.BatchConcurrency)
	}
	if c.TransitInterval <= 0 {
		return fmt.Errorf("TRANSIT_INTERVAL must be positive, got %s", c.TransitInterval)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}

// Persistent reports whether database-backed stores are configured.
func (c Config) Persistent() bool {
	return !c.UseMemory && c.PostgresDSN != "" && c.ClickhouseDSN != ""
}

func str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func boolean(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func integer(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
