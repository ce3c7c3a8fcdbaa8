// Package server runs the HTTP listener for the admin API.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admin-panel-api/internal/config"
)

// Server wraps the http.Server serving the gin router.
type Server struct {
	log  *zap.Logger
	http *http.Server
}

// New prepares the listener on the configured port. Nothing binds until
// Start.
func New(cfg *config.Config, l *zap.Logger, router *gin.Engine) *Server {
	return &Server{
		log:  l,
		http: newHTTPServer(router, ":"+cfg.App.HTTPPort, l),
	}
}

// Start serves until the listener fails or Stop is called. A graceful stop
// is not reported as an error.
func (s *Server) Start() error {
	s.log.Info("http server running", zap.String("address", s.http.Addr))

	err := s.http.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
