// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the Greed reference backend.
//
// Fields:
//   - ListenAddr: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - Audience: expected aud claim of identity tokens; empty disables the check.
//   - AppleSecret / GoogleSecret: HMAC keys of the development identity
//     providers. A provider without a key is not served.
type Config struct {
	ListenAddr            string        `env:"GREED_LISTEN_ADDR"`
	DatabaseDSN           string        `env:"GREED_DATABASE_DSN"`
	SecretKey             string        `env:"GREED_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"GREED_TOKEN_TTL"`
	Audience              string        `env:"GREED_AUDIENCE"`
	AppleSecret           string        `env:"GREED_APPLE_SECRET"`
	GoogleSecret          string        `env:"GREED_GOOGLE_SECRET"`
	LogLevel              string        `env:"GREED_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are insecure and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.Audience = ""
	c.AppleSecret = "apple-dev-secret"
	c.GoogleSecret = "google-dev-secret"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line args
// (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
