package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Timeouts guard against slow clients holding connections open.
const (
	readHeaderTimeout = 2 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

func newHTTPServer(router *gin.Engine, addr string, l *zap.Logger) *http.Server {
	l.Info("http server configured", zap.String("address", addr))
	l.Info("swagger ui available", zap.String("url", "http://localhost"+addr+"/swagger/index.html"))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
