package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"commonground-api/internal/models"
	"commonground-api/internal/service"
)

// RecommendHandler handles personalized recommendation requests
type RecommendHandler struct {
	service RecommendService
}

// Service interface for dependency injection
type RecommendService interface {
	Recommend(ctx context.Context, q service.RecommendQuery) ([]models.ScoredActivity, error)
}

// NewRecommendHandler creates a new recommend handler
func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{service: svc}
}

// Recommend handles GET /recommendations requests
//
// @Summary      Get personalized activity recommendations
// @Description  Returns up to 20 open activities within the radius, ranked by how closely each matches the user's preference vector (lower vibeScore is better).
// @Tags         recommendations
// @Produce      json
// @Param        lat       query  number  true   "Latitude of the search center"
// @Param        lng       query  number  true   "Longitude of the search center"
// @Param        social    query  number  true   "User sociability preference (0-10)"
// @Param        physical  query  number  true   "User physicality preference (0-10)"
// @Param        radius_m  query  number  false  "Search radius in meters (default 10000; 0 matches only the exact center point)"
// @Success      200  {array}   models.ScoredActivity
// @Failure      400  {object}  map[string]string  "Malformed coordinates or radius"
// @Failure      503  {object}  map[string]string  "Candidate store unavailable"
// @Router       /recommendations [get]
func (h *RecommendHandler) Recommend(c *gin.Context) {
	lat, ok := parseFloatParam(c, "lat")
	if !ok {
		return
	}
	lng, ok := parseFloatParam(c, "lng")
	if !ok {
		return
	}
	social, ok := parseFloatParam(c, "social")
	if !ok {
		return
	}
	physical, ok := parseFloatParam(c, "physical")
	if !ok {
		return
	}

	// The default applies only when the parameter is absent; an explicit 0
	// is a real radius and degenerates to an exact-point match downstream.
	radius := float64(models.DefaultRadiusM)
	if radiusStr := c.Query("radius_m"); radiusStr != "" {
		var err error
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_m format"})
			return
		}
	}

	query := service.RecommendQuery{
		Lat: lat,
		Lng: lng,
		Pref: models.UserPreference{
			Sociability: social,
			Physicality: physical,
			RadiusM:     radius,
		},
	}

	results, err := h.service.Recommend(c.Request.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUpstreamUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "candidate store unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, results)
}

func parseFloatParam(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter '" + name + "'"})
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " format"})
		return 0, false
	}
	return v, true
}
