package config

import (
	// Standard libraries
	"fmt"
	"time"

	// External utilities
	"github.com/kelseyhightower/envconfig"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Links   LinksConfig
	Logging LogConfig
	Tracing TracingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `envconfig:"STORELINK_ADDR" default:":8080"`
}

// StorageConfig - optional backends; empty URLs disable them.
type StorageConfig struct {
	RedisURL    string `envconfig:"REDIS_URL"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	NatsURL     string `envconfig:"NATS_URL"`
}

// LinksConfig holds link defaults.
type LinksConfig struct {
	CacheTTL time.Duration `envconfig:"STORELINK_CACHE_TTL" default:"720h"`
	Tag      string        `envconfig:"STORELINK_TAG"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// TracingConfig holds Datadog tracing configuration.
type TracingConfig struct {
	Enabled bool   `envconfig:"DD_TRACE_ENABLED" default:"false"`
	Service string `envconfig:"DD_SERVICE" default:"storelink"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
