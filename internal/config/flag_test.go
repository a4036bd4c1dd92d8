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
		{name: "Test1 OK", args: []string{"cmd", "-m", "s3", "-w", "ws42", "-i", "30", "-b", "safety"}, expectPanic: false,
			expected: &Config{GatewayMode: "s3", WorkspaceID: "ws42", PullInterval: 30 * time.Second, S3Bucket: "safety"}},
		{name: "Test2 incorrect pull interval", args: []string{"cmd", "-w", "ws42", "-i", "abc"}, expectPanic: true, expected: &Config{}},
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

func TestParseEnv(t *testing.T) {
	t.Setenv("SAFEWORK_GATEWAY_MODE", "webhook")
	t.Setenv("SAFEWORK_WORKSPACE_ID", "ws-env")
	t.Setenv("SAFEWORK_PULL_INTERVAL", "90s")
	t.Setenv("SAFEWORK_REQUEST_TIMEOUT", "not-a-duration")

	cfg := &Config{RequestTimeout: 5 * time.Second}
	parseEnv(cfg)

	assert.Equal(t, "webhook", cfg.GatewayMode)
	assert.Equal(t, "ws-env", cfg.WorkspaceID)
	assert.Equal(t, 90*time.Second, cfg.PullInterval)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout, "unparseable durations are ignored")
}
