// Package config provides application-wide configuration. Defaults are safe
// for local runs; an optional YAML file overlays the defaults and
// environment variables win over both. The core never interprets the
// outbound service values — they pass through to the tool bodies.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the macroman server.
type Config struct {
	// HTTP transport
	HTTPHost string `env:"MACROMAN_HTTP_HOST" yaml:"http_host"`
	HTTPPort int    `env:"MACROMAN_HTTP_PORT" yaml:"http_port"`

	// Dispatcher
	CallTimeout string `env:"MACROMAN_CALL_TIMEOUT" yaml:"call_timeout"`

	// Outbound service consumed by the email and calendar tools. Opaque to
	// the core.
	ServiceURL string `env:"MACROMAN_SERVICE_URL" yaml:"service_url"`

	// Logging
	LogLevel string `env:"MACROMAN_LOG_LEVEL" yaml:"log_level"`
}

func defaults() Config {
	return Config{
		HTTPHost:    "0.0.0.0",
		HTTPPort:    8000,
		CallTimeout: "30s",
		ServiceURL:  "http://localhost:3000",
		LogLevel:    "info",
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (if path is non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if _, err := cfg.Timeout(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Timeout parses the per-call timeout.
func (c Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.CallTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: invalid call_timeout %q: %w", c.CallTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: call_timeout must be positive, got %q", c.CallTimeout)
	}
	return d, nil
}

// SlogLevel maps the configured level to slog. Unknown values fall back to
// info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HTTPAddr renders the listen address for the HTTP transport.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}
