package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"commonground-api/internal/models"
	"commonground-api/internal/repository"
	"commonground-api/internal/service"
)

// ProfileHandler handles profile save and read requests
type ProfileHandler struct {
	service ProfileService
}

// Service interface for dependency injection
type ProfileService interface {
	Save(ctx context.Context, id string, p models.Profile) error
	Get(ctx context.Context, id string) (*models.Profile, error)
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// Save handles PUT /profiles/:id requests
//
// @Summary      Save a user profile
// @Description  Persists the profile and applies its delta to the global aggregate as one logical operation. A 409 means the aggregate transaction lost too many races and the whole save should be retried.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id       path  string          true  "Profile id"
// @Param        profile  body  models.Profile  true  "Profile document"
// @Success      204
// @Failure      400  {object}  map[string]string  "Malformed profile"
// @Failure      409  {object}  map[string]string  "Aggregate conflict retries exhausted; retry the save"
// @Failure      503  {object}  map[string]string  "Store unavailable"
// @Router       /profiles/{id} [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	id := c.Param("id")

	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile body"})
		return
	}

	err := h.service.Save(c.Request.Context(), id, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrConflictExhausted):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "global stats update could not commit; retry the save",
				"retryable": "true",
			})
		case errors.Is(err, service.ErrUpstreamUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// Get handles GET /profiles/:id requests
//
// @Summary      Fetch a user profile
// @Tags         profiles
// @Produce      json
// @Param        id  path  string  true  "Profile id"
// @Success      200  {object}  models.Profile
// @Failure      404  {object}  map[string]string  "Unknown profile"
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	id := c.Param("id")

	profile, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}
