package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", ":9090", "-d", "postgres://x", "-s", "k", "-t", "60", "-o", "15"}, expectPanic: false,
			expected: &Config{EndpointAddr: ":9090", DatabaseDSN: "postgres://x", SecretKey: "k",
				AccessTokenValidityDuration: 60 * time.Minute, ActionTokenValidityDuration: 15 * time.Minute}},
		{name: "Test2 incorrect validity", args: []string{"cmd", "-a", ":9090", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
