// Package server wires storage, handlers and middleware into the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/finkeeper/internal/config"
	"github.com/iudanet/finkeeper/internal/server/handlers"
	"github.com/iudanet/finkeeper/internal/server/middleware"
	"github.com/iudanet/finkeeper/internal/server/storage"
)

const (
	healthPath      = "/api/v1/health"
	shutdownTimeout = 10 * time.Second
)

// Server HTTP сервер API
type Server struct {
	logger  *slog.Logger
	limiter *middleware.RateLimiter
	handler http.Handler
	addr    string
}

// New собирает маршруты и цепочку middleware.
// db используется только health check'ом и может быть nil.
func New(cfg config.Server, logger *slog.Logger, store storage.RecordStorage, db handlers.Pinger, version string) *Server {
	mux := http.NewServeMux()
	handlers.Routes(mux, logger, store, handlers.NewHealthHandler(logger, version, db))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window(), logger)

	var h http.Handler = mux
	h = middleware.UserMiddleware(logger)(h)
	h = limiter.Middleware(h)
	h = middleware.LoggingMiddleware(logger, healthPath)(h)
	h = middleware.RecoveryMiddleware(logger)(h)

	return &Server{
		logger:  logger,
		limiter: limiter,
		handler: h,
		addr:    cfg.HTTP.Addr,
	}
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает addr до отмены ctx, затем корректно завершает соединения
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Close освобождает ресурсы, если Run не вызывался
func (s *Server) Close() {
	s.limiter.Stop()
}
