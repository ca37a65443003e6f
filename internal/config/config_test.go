package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "museum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9000"
region: kr
data:
  repo: someone/data
  timeout: 5s
log:
  format: json
`), 0644))

	t.Setenv("MUSEUM_REGION", "jp")
	t.Setenv("MUSEUM_DATA__RETRIES", "7")
	t.Setenv("MUSEUM_PRELOAD_RADIUS", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Listen)
	require.Equal(t, "jp", cfg.Region)
	require.Equal(t, "someone/data", cfg.Data.Repo)
	require.Equal(t, "master", cfg.Data.Branch)
	require.Equal(t, 5*time.Second, cfg.Data.Timeout)
	require.Equal(t, 7, cfg.Data.Retries)
	require.Equal(t, 1, cfg.PreloadRadius)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "https://cdn.jsdelivr.net/gh/someone/data@master", cfg.DataBaseURL())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "museum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"unknown region", func(c *Config) { c.Region = "us" }},
		{"no data repo", func(c *Config) { c.Data.Repo = "" }},
		{"no asset repo", func(c *Config) { c.Assets.Repo = "" }},
		{"negative radius", func(c *Config) { c.PreloadRadius = -1 }},
		{"negative retries", func(c *Config) { c.Data.Retries = -2 }},
		{"negative ttl", func(c *Config) { c.Versions.TTL = -time.Second }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestBaseURLOverrides(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "https://raw.githubusercontent.com/myssal/PGR-Assets/master", cfg.AssetBaseURL())

	cfg.Assets.Repo = ""
	cfg.Assets.BaseURL = "http://localhost:9999/assets"
	cfg.Data.BaseURL = "http://localhost:9999/data"
	require.NoError(t, cfg.Validate())
	require.Equal(t, "http://localhost:9999/assets", cfg.AssetBaseURL())
	require.Equal(t, "http://localhost:9999/data", cfg.DataBaseURL())
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Region = "tw"
	cfg.WebSocket.AllowedOrigins = []string{"https://museum.example"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
