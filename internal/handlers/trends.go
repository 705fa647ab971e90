package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gutcheck-app/gutcheck/backend/internal/service"
)

type TrendsHandler struct {
	trendsService service.TrendsService
}

// NewTrendsHandler creates a new trends handler
func NewTrendsHandler(trendsService service.TrendsService) *TrendsHandler {
	return &TrendsHandler{
		trendsService: trendsService,
	}
}

// GetTrends handles GET /api/v1/trends?days=30&deviceId=all
func (h *TrendsHandler) GetTrends(c *gin.Context) {
	days := parseDays(c.Query("days"))
	deviceID := c.DefaultQuery("deviceId", "all")

	resp, err := h.trendsService.GetTrends(c.Request.Context(), days, deviceID)
	if err != nil {
		writeStorageError(c, err, "failed to compute trends")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parseDays returns 0 (use the default) for a missing, malformed or
// non-positive value. Clamping to the maximum happens in the service.
func parseDays(raw string) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days <= 0 {
		return 0
	}
	return days
}
