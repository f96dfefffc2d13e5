package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/macroman/macroman/internal/infra/config"
	"github.com/macroman/macroman/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tool server",
		RunE:  runServe,
	}

	cmd.Flags().String("transport", "http", "Transport to serve: http, stdio, or both")
	cmd.Flags().String("host", "", "Listen host (overrides config)")
	cmd.Flags().IntP("port", "p", 0, "Listen port (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	transport, _ := cmd.Flags().GetString("transport")
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if host != "" {
		cfg.HTTPHost = host
	}
	if port != 0 {
		cfg.HTTPPort = port
	}

	var mode server.Transport
	switch transport {
	case "http":
		mode = server.TransportHTTP
	case "stdio":
		mode = server.TransportStdio
	case "both":
		mode = server.TransportBoth
	default:
		return fmt.Errorf("unknown transport %q (want http, stdio, or both)", transport)
	}

	// On the stdio transport stdout carries response frames, so logs go to
	// stderr unconditionally.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	srv, err := server.New(cfg, server.Options{
		Transport: mode,
		Logger:    logger,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
