// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"escrow-charge/core/types"
	"escrow-charge/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ESCROW_"

// Storage backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" envPrefix:"SERVER_"`

	// Storage contains quote ledger configuration
	Storage StorageConfig `json:"storage" envPrefix:"STORAGE_"`

	// Charge contains service-charge configuration
	Charge ChargeConfig `json:"charge" envPrefix:"CHARGE_"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" envPrefix:"LOG_"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" env:"ADDR"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" env:"READ_TIMEOUT_SECONDS"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" env:"WRITE_TIMEOUT_SECONDS"`
}

// StorageConfig contains quote ledger settings
type StorageConfig struct {
	// Backend is one of memory, sqlite, redis
	Backend string `json:"backend" env:"BACKEND"`

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH"`

	// RedisAddr is host:port for the redis backend
	RedisAddr string `json:"redis_addr" env:"REDIS_ADDR"`

	// RedisDB selects the redis database
	RedisDB int `json:"redis_db" env:"REDIS_DB"`

	// QuoteTTLSeconds expires redis quotes (0 = keep)
	QuoteTTLSeconds int `json:"quote_ttl_seconds" env:"QUOTE_TTL_SECONDS"`
}

// ChargeConfig contains service-charge settings
type ChargeConfig struct {
	// Currency labels amounts in output and stored quotes
	Currency types.Currency `json:"currency" env:"CURRENCY"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".escrow-charge", "quotes.db")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
		},
		Storage: StorageConfig{
			Backend:    BackendMemory,
			SQLitePath: dbPath,
			RedisAddr:  "localhost:6379",
		},
		Charge: ChargeConfig{
			Currency: types.CurrencyUSD,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from ESCROW_* environment variables
func ApplyEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the configuration for unusable values and normalises the currency code
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	currency, ok := types.ParseCurrency(string(c.Charge.Currency))
	if !ok {
		return fmt.Errorf("unsupported currency %q", c.Charge.Currency)
	}
	c.Charge.Currency = currency
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
