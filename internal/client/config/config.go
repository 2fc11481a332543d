package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings for the DayKeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP endpoint.
//   - DataDir: directory for device-local data (guest entries, session token).
type Config struct {
	ServerEndpointAddr string
	DataDir            string
}

// LoadDefaults populates c with sensible defaults. The data directory lands
// under the user's home; if that cannot be resolved, a relative directory is
// used.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	home, err := os.UserHomeDir()
	if err != nil {
		c.DataDir = ".daykeeper"
		return
	}
	c.DataDir = filepath.Join(home, ".daykeeper")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
