package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avolkovs/daykeeper/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. Durations are specified as integer minutes.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr               string `json:"endpoint_addr"`
	DatabaseDSN                string `json:"database_dsn"`
	SecretKey                  string `json:"secret_key"`
	AccessTokenValidityMinutes int    `json:"access_token_validity_minutes"`
	ActionTokenValidityMinutes int    `json:"action_token_validity_minutes"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. The resulting values are copied into the target Config.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityMinutes) * time.Minute
	}
	if c.ActionTokenValidityMinutes > 0 {
		config.ActionTokenValidityDuration = time.Duration(c.ActionTokenValidityMinutes) * time.Minute
	}
}
