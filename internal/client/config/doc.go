// Package config loads runtime configuration for the Greed client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Environment variables prefixed with GREED_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     base URL of the Greed backend
//	-d string     path of the local session database
//	-t duration   per-request timeout (e.g. 10s)
//	-p string     default identity provider for "login"
//	-l string     log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations are strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:8080",
//	  "database_path": "greed.db",
//	  "request_timeout": "10s",
//	  "provider": "apple",
//	  "log_level": "info"
//	}
package config
