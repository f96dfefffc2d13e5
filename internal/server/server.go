// Package server wires the registry, dispatcher, and transports together
// and manages their lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/macroman/macroman/internal/api"
	"github.com/macroman/macroman/internal/infra/config"
	"github.com/macroman/macroman/internal/infra/eventbus"
	"github.com/macroman/macroman/internal/stdio"
	"github.com/macroman/macroman/internal/tool"
	"github.com/macroman/macroman/internal/tools"
)

// Transport selects which adapters a Server runs.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
	TransportBoth  Transport = "both"
)

// Options configures a Server beyond what config.Config carries. Streams
// default to the process stdin/stdout for the stdio transport.
type Options struct {
	Transport Transport
	Logger    *slog.Logger
	Stdin     io.Reader
	Stdout    io.Writer
}

// Server owns one registry, one dispatcher shared by both transports, and
// the transports themselves.
type Server struct {
	cfg        config.Config
	opts       Options
	registry   *tool.Registry
	dispatcher *tool.Dispatcher
	bus        *eventbus.Bus
	httpSrv    *http.Server
	stdioSrv   *stdio.Transport
	log        *slog.Logger
}

// New builds a fully registered Server. Registration happens here, before
// any transport starts; a duplicate tool or malformed descriptor fails
// startup. The registry is read-only from this point on.
func New(cfg config.Config, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Transport == "" {
		opts.Transport = TransportHTTP
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	registry := tool.NewRegistry()
	if err := tools.RegisterAll(registry, tools.Options{ServiceURL: cfg.ServiceURL}); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	if err := tool.RegisterDiscovery(registry); err != nil {
		return nil, fmt.Errorf("register discovery: %w", err)
	}

	bus := eventbus.New()
	dispatcher := tool.NewDispatcher(registry, timeout, opts.Logger, bus)

	s := &Server{
		cfg:        cfg,
		opts:       opts,
		registry:   registry,
		dispatcher: dispatcher,
		bus:        bus,
		log:        opts.Logger.With("component", "server"),
	}

	if opts.Transport == TransportHTTP || opts.Transport == TransportBoth {
		s.httpSrv = &http.Server{
			Addr:         cfg.HTTPAddr(),
			Handler:      api.NewRouter(dispatcher, registry, opts.Logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}
	if opts.Transport == TransportStdio || opts.Transport == TransportBoth {
		s.stdioSrv = stdio.New(dispatcher, opts.Stdin, opts.Stdout, opts.Logger)
	}

	return s, nil
}

// Registry exposes the registered tools, for the CLI listing command.
func (s *Server) Registry() *tool.Registry { return s.registry }

// Run starts the configured transports and blocks until ctx is canceled or
// a transport fails. Shutdown is graceful: the HTTP listener drains before
// Run returns.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	go s.auditLoop(ctx)

	if s.httpSrv != nil {
		g.Go(func() error {
			s.log.Info("http transport listening", "addr", s.httpSrv.Addr)
			if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http transport: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return s.httpSrv.Shutdown(shutdownCtx)
		})
	}

	if s.stdioSrv != nil {
		g.Go(func() error {
			s.log.Info("stdio transport reading")
			return s.stdioSrv.Run(ctx)
		})
	}

	err := g.Wait()
	s.bus.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// auditLoop logs one line per completed call from the eventbus, keeping
// call accounting out of the dispatch path. It exits when the bus closes
// its channel on shutdown.
func (s *Server) auditLoop(ctx context.Context) {
	events := s.bus.Subscribe(eventbus.TopicCallCompleted)
	audit := s.opts.Logger.With("component", "audit")
	for {
		select {
		case <-ctx.Done():
			return
		case evt, open := <-events:
			if !open {
				return
			}
			call, ok := evt.Payload.(eventbus.CallEvent)
			if !ok {
				continue
			}
			if call.ErrorKind != "" {
				audit.Info("call",
					"tool", call.Tool,
					"correlation_id", call.CorrelationID,
					"duration", call.Duration,
					"error_kind", call.ErrorKind)
			} else {
				audit.Info("call",
					"tool", call.Tool,
					"correlation_id", call.CorrelationID,
					"duration", call.Duration)
			}
		}
	}
}
