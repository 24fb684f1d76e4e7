package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wordbuddy/internal/config"
	"github.com/heartmarshall/wordbuddy/internal/eventbus"
	"github.com/heartmarshall/wordbuddy/internal/presentation"
	"github.com/heartmarshall/wordbuddy/internal/transport/middleware"
	"github.com/heartmarshall/wordbuddy/internal/transport/rest"
	"github.com/heartmarshall/wordbuddy/internal/transport/ws"
)

const limiterCleanupInterval = time.Minute

// Server is the HTTP/WebSocket front-end with its running pipeline.
type Server struct {
	handler  http.Handler
	pipeline *pipeline
	hub      *ws.Hub
	limiter  *middleware.LookupLimiter
}

// NewServer wires and starts the lookup pipeline behind the HTTP API.
// Call Close to release it.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	bus := eventbus.New()
	gate := presentation.NewGate(bus)
	hub := ws.NewHub(logger, bus, gate, cfg.Server.CORSOrigins)

	p, err := newPipeline(ctx, cfg, logger, bus, hub)
	if err != nil {
		return nil, err
	}
	hub.Start()
	p.service.Start()

	// Interfaces stay nil when the journal is disabled.
	var pinger rest.DBPinger
	if p.pool != nil {
		pinger = p.pool
	}

	health := rest.NewHealthHandler(pinger, BuildVersion())
	lookups := rest.NewLookupHandler(p.service, gate, p.history, logger)
	limiter := middleware.NewLookupLimiter(cfg.Server.LookupsPerMinute, limiterCleanupInterval)
	limit := limiter.Middleware()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /api/v1/lookup/{word}", limit(http.HandlerFunc(lookups.Lookup)))
	mux.Handle("POST /api/v1/words", limit(http.HandlerFunc(lookups.RequestWord)))
	mux.HandleFunc("GET /api/v1/gate", lookups.Gate)
	mux.HandleFunc("GET /api/v1/history", lookups.History)
	mux.Handle("GET /ws", hub)

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.Server.CORSOrigins),
	)(mux)

	return &Server{handler: handler, pipeline: p, hub: hub, limiter: limiter}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Close disconnects WebSocket clients, stops the pipeline and releases the
// journal pool.
func (s *Server) Close() {
	s.hub.Close()
	s.pipeline.close()
	s.limiter.Stop()
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	srv, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			slog.String("addr", httpServer.Addr),
			slog.String("version", BuildVersion()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
