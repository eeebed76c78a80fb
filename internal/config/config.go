// Package config holds runtime configuration and the static contracts
// reference data the analytics service consumes.
package config

import (
	"errors"
	"time"
)

// Config is the runtime configuration, resolved from flags and environment
// variables in cmd/server.
type Config struct {
	ListenAddr    string        // HTTP listen address
	PostgresDSN   string        // analytics database
	RedisAddr     string        // optional; empty selects the in-memory result cache
	RedisPassword string
	RedisDB       int
	ContractsPath string        // path to the contracts JSON file
	HistoryTTL    time.Duration // result cache TTL for per-day locked-value sums
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return errors.New("postgres dsn is required")
	}
	if c.ContractsPath == "" {
		return errors.New("contracts path is required")
	}
	if c.HistoryTTL <= 0 {
		return errors.New("history ttl must be positive")
	}
	return nil
}
