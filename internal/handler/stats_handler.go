package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/response"
)

// StatsHandler serves library-wide counts.
type StatsHandler struct {
	service *application.LibraryService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *application.LibraryService) *StatsHandler {
	return &StatsHandler{service: service}
}

// RegisterRoutes registers the stats route.
func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/stats", h.Stats)
}

// Stats handles GET /api/v1/stats.
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
