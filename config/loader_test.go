package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/rail-router/network"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
source:
  kind: sqlite
  path: ./records.db
cache:
  size: 4
  ttlMinutes: 30
routing:
  railSpeed: 25
  samePlatformTransferCost: 0
  defaultMode: transfers
worlds:
  - id: main
    name: Main World
  - id: legacy
    source:
      kind: http
      url: https://example.org/worlds
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeoutSec)
	assert.Equal(t, "sqlite", cfg.Source.Kind)
	assert.Equal(t, 4, cfg.Cache.Size)
	assert.Equal(t, "transfers", cfg.Routing.DefaultMode)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	require.Len(t, cfg.Worlds, 2)

	tun := cfg.Routing.Tunables()
	assert.Equal(t, 25.0, tun.RailSpeed)
	assert.Equal(t, network.DefaultTransferWalkSpeed, tun.TransferWalkSpeed)
	assert.Zero(t, tun.SamePlatformTransferCost, "explicit zero is kept")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("RAILROUTE_PORT", "9100")
	t.Setenv("RAILROUTE_SOURCE_PATH", "/srv/worlds")
	t.Setenv("RAILROUTE_LOG_LEVEL", "debug")
	t.Setenv("RAILROUTE_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/srv/worlds", cfg.Source.Path)
	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"bad source kind", "source:\n  kind: ftp\n", nil},
		{"bad mode", "routing:\n  defaultMode: teleport\n", nil},
		{"negative speed", "routing:\n  railSpeed: -3\n", nil},
		{"world without id", "worlds:\n  - name: nameless\n", nil},
		{"bad yaml", "server: [\n", nil},
		{"bad env number", "", map[string]string{"RAILROUTE_CACHE_SIZE": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultSourcePath, cfg.Source.Path)
	assert.Equal(t, DefaultMode, cfg.Routing.DefaultMode)
	assert.Equal(t, network.DefaultTunables(), cfg.Routing.Tunables())
}

func TestSelectWorld(t *testing.T) {
	http := &SourceConfig{Kind: "http", URL: "https://example.org"}
	cfg := AppConfig{
		Source: SourceConfig{Kind: "file", Path: "./worlds"},
		Worlds: []World{
			{ID: "main", Name: "Main World"},
			{ID: "legacy", Source: http},
		},
	}

	w, src := cfg.SelectWorld("Main World")
	assert.Equal(t, "main", w.ID)
	assert.Equal(t, "file", src.Kind)

	w, src = cfg.SelectWorld("legacy")
	assert.Equal(t, "legacy", w.ID)
	assert.Equal(t, *http, src)

	w, _ = cfg.SelectWorld("")
	assert.Equal(t, "main", w.ID)

	w, src = cfg.SelectWorld("adhoc")
	assert.Equal(t, "adhoc", w.ID)
	assert.Equal(t, "./worlds", src.Path)

	w, _ = AppConfig{}.SelectWorld("")
	assert.Empty(t, w.ID)
}
