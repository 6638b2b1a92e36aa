// Package config loads runtime settings from defaults, an optional YAML file
// and ANIME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/taichizzz/anime-recommender/internal/catalog"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "ANIME"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Jikan   JikanConfig   `mapstructure:"jikan"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port        string        `mapstructure:"port"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	RateLimit   int           `mapstructure:"rate_limit"` // requests per window per IP, 0 disables
	RateWindow  time.Duration `mapstructure:"rate_window"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// JikanConfig configures the metadata provider client.
type JikanConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Rate    float64       `mapstructure:"rate"`
	Burst   int           `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8888")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_window", time.Minute)
	v.SetDefault("session.idle_timeout", 30*time.Minute)
	v.SetDefault("jikan.base_url", catalog.DefaultBaseURL)
	v.SetDefault("jikan.timeout", 30*time.Second)
	v.SetDefault("jikan.rate", 3.0)
	v.SetDefault("jikan.burst", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance wired for defaults, config file search paths
// and environment overrides. cfgFile may be empty.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("anime-recommender")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "anime-recommender"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The provider base address is also accepted unprefixed.
	_ = v.BindEnv("jikan.base_url", EnvPrefix+"_JIKAN_BASE_URL", "JIKAN_BASE_URL")

	return v
}

// Load reads the config file if one is found and decodes the result.
// A missing file is not an error unless it was named explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		slog.Debug("Using config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Jikan.BaseURL) == "" {
		return fmt.Errorf("jikan.base_url must not be empty")
	}
	if c.Jikan.Timeout <= 0 {
		return fmt.Errorf("jikan.timeout must be positive, got %s", c.Jikan.Timeout)
	}
	if c.Jikan.Rate <= 0 {
		return fmt.Errorf("jikan.rate must be positive, got %v", c.Jikan.Rate)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %d", c.Server.RateLimit)
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive, got %s", c.Session.IdleTimeout)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// CatalogOptions maps the provider settings onto catalog client options.
func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		BaseURL: c.Jikan.BaseURL,
		Timeout: c.Jikan.Timeout,
		Rate:    c.Jikan.Rate,
		Burst:   c.Jikan.Burst,
	}
}

// NewLogger builds the slog logger described by the log settings.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
}
