package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPAddr() != "0.0.0.0:8000" {
		t.Fatalf("unexpected default address: %q", cfg.HTTPAddr())
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		t.Fatalf("Timeout returned error: %v", err)
	}
	if timeout != 30*time.Second {
		t.Fatalf("expected 30s default timeout, got %s", timeout)
	}
	if cfg.ServiceURL != "http://localhost:3000" {
		t.Fatalf("unexpected default service URL: %q", cfg.ServiceURL)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http_port: 9001\ncall_timeout: 5s\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.HTTPPort)
	}
	if cfg.HTTPHost != "0.0.0.0" {
		t.Fatalf("unset YAML keys keep their defaults, got %q", cfg.HTTPHost)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestLoad_EnvWinsOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http_port: 9001\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Setenv("MACROMAN_HTTP_PORT", "9002")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 9002 {
		t.Fatalf("expected environment to win, got %d", cfg.HTTPPort)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("MACROMAN_CALL_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unparseable call_timeout")
	}
}

func TestTimeout_RejectsNonPositive(t *testing.T) {
	cfg := defaults()
	cfg.CallTimeout = "-1s"
	if _, err := cfg.Timeout(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestSlogLevel_UnknownFallsBackToInfo(t *testing.T) {
	cfg := defaults()
	cfg.LogLevel = "verbose"
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("expected info fallback, got %v", cfg.SlogLevel())
	}
}
