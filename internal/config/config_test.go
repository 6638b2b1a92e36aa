package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taichizzz/anime-recommender/internal/catalog"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(""))
	require.NoError(t, err)

	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, catalog.DefaultBaseURL, cfg.Jikan.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Jikan.Timeout)
	assert.InDelta(t, 3.0, cfg.Jikan.Rate, 0.001)
	assert.Equal(t, 3, cfg.Jikan.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `server:
  port: "3000"
  cors_origins:
    - http://localhost:5173
jikan:
  base_url: http://jikan.local/v4
  timeout: 5s
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(New(path))
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://jikan.local/v4", cfg.Jikan.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Jikan.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		env     map[string]string
		baseURL string
		port    string
	}{
		{
			name:    "prefixed variables",
			env:     map[string]string{"ANIME_JIKAN_BASE_URL": "http://prefixed/v4", "ANIME_SERVER_PORT": "9999"},
			baseURL: "http://prefixed/v4",
			port:    "9999",
		},
		{
			name:    "unprefixed provider address",
			env:     map[string]string{"JIKAN_BASE_URL": "http://bare/v4"},
			baseURL: "http://bare/v4",
			port:    "8888",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(New(""))
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, cfg.Jikan.BaseURL)
			assert.Equal(t, tt.port, cfg.Server.Port)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: "8888", RateLimit: 100, RateWindow: time.Minute},
			Session: SessionConfig{IdleTimeout: time.Minute},
			Jikan:   JikanConfig{BaseURL: catalog.DefaultBaseURL, Timeout: time.Second, Rate: 3, Burst: 3},
			Log:     LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty base url", func(c *Config) { c.Jikan.BaseURL = " " }, "jikan.base_url"},
		{"zero timeout", func(c *Config) { c.Jikan.Timeout = 0 }, "jikan.timeout"},
		{"zero rate", func(c *Config) { c.Jikan.Rate = 0 }, "jikan.rate"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "server.rate_limit"},
		{"zero idle timeout", func(c *Config) { c.Session.IdleTimeout = 0 }, "session.idle_timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestCatalogOptions(t *testing.T) {
	cfg := Config{Jikan: JikanConfig{BaseURL: "http://x", Timeout: time.Second, Rate: 2, Burst: 4}}
	opts := cfg.CatalogOptions()
	assert.Equal(t, "http://x", opts.BaseURL)
	assert.Equal(t, time.Second, opts.Timeout)
	assert.InDelta(t, 2.0, opts.Rate, 0.001)
	assert.Equal(t, 4, opts.Burst)
}
