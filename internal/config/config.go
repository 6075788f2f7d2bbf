// Package config loads server configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// Config holds server configuration
type Config struct {
	// Port is the gRPC listen port
	Port int `env:"PORT" envDefault:"50051"`

	// RedisAddr is the backing-store endpoint
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// RedisPoolSize bounds the store connection pool (0 = client default)
	RedisPoolSize int `env:"REDIS_POOL_SIZE" envDefault:"0"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Port <= 0 || c.Port > 65535 {
		vb.Fieldf("Port", "must be a valid TCP port, got %d", c.Port)
	}
	if c.RedisAddr == "" {
		vb.RequiredField("RedisAddr")
	}

	return vb.Build()
}
