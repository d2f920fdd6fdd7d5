package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"commonground-api/internal/models"
)

// StatsHandler serves the read-only view of the global aggregate
type StatsHandler struct {
	service AggregateReader
}

// Service interface for dependency injection
type AggregateReader interface {
	Read(ctx context.Context) (models.Aggregate, error)
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(svc AggregateReader) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Aggregate handles GET /stats/aggregate requests
//
// @Summary      Read the global aggregate
// @Description  Returns the population-wide interest counts and preference averages. Read-only; all mutation flows through profile saves.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  models.Aggregate
// @Failure      503  {object}  map[string]string  "Aggregate store unavailable"
// @Router       /stats/aggregate [get]
func (h *StatsHandler) Aggregate(c *gin.Context) {
	agg, err := h.service.Read(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "aggregate store unavailable"})
		return
	}

	c.JSON(http.StatusOK, agg)
}
