package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is t.Chdir for Go toolchains older than 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.DefaultTimeoutMs)
	assert.False(t, cfg.DebugNamespace)
	assert.Empty(t, cfg.AppName)
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `
app_name = "mailer"
debug_namespace = true
default_timeout_ms = 3000

[serve]
name = "testserver"
capabilities = ["actions"]

[log]
development = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notify.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mailer", cfg.AppName)
	assert.True(t, cfg.DebugNamespace)
	assert.Equal(t, 3000, cfg.DefaultTimeoutMs)
	assert.Equal(t, "testserver", cfg.Serve.Name)
	assert.Equal(t, []string{"actions"}, cfg.Serve.Capabilities)
	assert.True(t, cfg.Log.Development)
}

func TestGetServeConfigDefaults(t *testing.T) {
	cfg := &Config{}
	serve := cfg.GetServeConfig()
	assert.Equal(t, "notify", serve.Name)
	assert.Equal(t, "llehouerou", serve.Vendor)
	assert.Contains(t, serve.Capabilities, "actions")
}

func TestGetServeConfigKeepsExplicitValues(t *testing.T) {
	cfg := &Config{Serve: ServeConfig{Name: "custom", Vendor: "acme", Capabilities: []string{"body"}}}
	serve := cfg.GetServeConfig()
	assert.Equal(t, "custom", serve.Name)
	assert.Equal(t, "acme", serve.Vendor)
	assert.Equal(t, []string{"body"}, serve.Capabilities)
}
