package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and the wiring the server runs with.
type HealthHandler struct {
	service string
	store   string
	cache   bool
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(service, store string, cache bool) *HealthHandler {
	return &HealthHandler{
		service: service,
		store:   store,
		cache:   cache,
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
		"store":   h.store,
		"cache":   h.cache,
	})
}
