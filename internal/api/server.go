package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quantfolio/advisor/pkg/logger"
)

// Server wraps the HTTP server serving the signal API.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// New creates the API server listening on the given port.
func New(port string, env string, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log.WithFields(map[string]interface{}{
			"addr": ":" + port,
			"env":  env,
		}),
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	return nil
}
