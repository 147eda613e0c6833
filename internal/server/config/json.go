package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/greed/internal/flagx"
	"github.com/dmitrijs2005/greed/internal/timex"
)

// JsonConfig is an intermediate DTO for JSON configuration files. Pointer
// fields tell "absent" apart from "set to empty", so a file can switch the
// server to the in-memory store with "database_dsn": "".
type JsonConfig struct {
	ListenAddr            *string         `json:"listen_addr"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	Audience              *string         `json:"audience"`
	AppleSecret           *string         `json:"apple_secret"`
	GoogleSecret          *string         `json:"google_secret"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson overlays config with the fields present in the file named by
// -c or -config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Audience, c.Audience)
	setString(&config.AppleSecret, c.AppleSecret)
	setString(&config.GoogleSecret, c.GoogleSecret)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
