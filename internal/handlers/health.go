package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	env     string
	storage string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(env, storage string) *HealthHandler {
	return &HealthHandler{env: env, storage: storage}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"env":     h.env,
		"storage": h.storage,
	})
}
