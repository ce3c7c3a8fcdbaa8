package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admin-panel-api/internal/adapter/gin/response"
	"admin-panel-api/pkg/errors"
)

// Recovery converts panics into 500 responses instead of killing the process.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				response.AbortWith(c, http.StatusInternalServerError, errors.CodeInternal, "internal server error")
			}
		}()

		c.Next()
	}
}
