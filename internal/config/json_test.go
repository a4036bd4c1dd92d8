package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"gateway_mode":  "webhook",
		"endpoint_url":  "https://hooks.example/sync",
		"workspace_id":  "ws-json",
		"pull_interval": "45s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "webhook", cfg.GatewayMode)
		assert.Equal(t, "https://hooks.example/sync", cfg.EndpointURL)
		assert.Equal(t, "ws-json", cfg.WorkspaceID)
		assert.Equal(t, 45*time.Second, cfg.PullInterval)
	})

	t.Run("absent fields keep current values", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{DatabasePath: "keep.db", RequestTimeout: 7 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "keep.db", cfg.DatabasePath)
		assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "webhook", cfg.GatewayMode)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			GatewayMode:  "s3",
			PullInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "s3", cfg.GatewayMode)
		assert.Equal(t, 42*time.Second, cfg.PullInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
