// Package config loads runtime configuration for the DayKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP endpoint
//	-d string   directory for device-local data (guest entries, session token)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "data_dir": "/home/me/.daykeeper"
//	}
//
// Primary API
//
//   - type Config                     — holds ServerEndpointAddr and DataDir
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
