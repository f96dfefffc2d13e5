package server

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/macroman/macroman/internal/infra/config"
	"github.com/macroman/macroman/internal/tool"
)

func testConfig() config.Config {
	cfg, _ := config.Load("")
	cfg.HTTPHost = "127.0.0.1"
	cfg.HTTPPort = 0
	return cfg
}

func TestNew_RegistersEveryTool(t *testing.T) {
	t.Parallel()

	srv, err := New(testConfig(), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	registry := srv.Registry()
	if registry.Len() == 0 {
		t.Fatal("expected a populated registry")
	}
	if _, _, err := registry.Lookup(tool.DiscoveryToolName); err != nil {
		t.Fatalf("expected discovery tool registered last: %v", err)
	}

	var last string
	for descriptor := range registry.List() {
		last = descriptor.Name
	}
	if last != tool.DiscoveryToolName {
		t.Fatalf("expected %s last in listing order, got %q", tool.DiscoveryToolName, last)
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CallTimeout = "never"
	if _, err := New(cfg, Options{}); err == nil {
		t.Fatal("expected error for invalid call_timeout")
	}
}

func TestRun_StdioTransport_StopsOnEOF(t *testing.T) {
	t.Parallel()

	out := &strings.Builder{}
	srv, err := New(testConfig(), Options{
		Transport: TransportStdio,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdin:     strings.NewReader(`{"id":"r1","tool":"echo_message","args":{"message":"hi"}}` + "\n"),
		Stdout:    out,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after stdin closed")
	}

	if !strings.Contains(out.String(), `"r1"`) {
		t.Fatalf("expected a response frame for r1, got %q", out.String())
	}
}

func TestRun_CancellationIsCleanShutdown(t *testing.T) {
	t.Parallel()

	in, w := io.Pipe()
	srv, err := New(testConfig(), Options{
		Transport: TransportStdio,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdin:     in,
		Stdout:    io.Discard,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	w.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
