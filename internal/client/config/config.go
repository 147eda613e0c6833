package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the Greed client.
type Config struct {
	ServerURL      string        `env:"GREED_SERVER_URL"`
	DatabasePath   string        `env:"GREED_DB_PATH"`
	RequestTimeout time.Duration `env:"GREED_REQUEST_TIMEOUT"`
	Provider       string        `env:"GREED_PROVIDER"`
	LogLevel       string        `env:"GREED_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.DatabasePath = "greed.db"
	c.RequestTimeout = 10 * time.Second
	c.Provider = "apple"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the optional JSON file, the
// environment and finally the command-line args (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseEnv overlays variables that are set; unset ones leave cfg untouched.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
