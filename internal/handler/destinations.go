package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"apptravel/internal/model"
	"apptravel/internal/repository"

	"github.com/gin-gonic/gin"
)

const destinationsLimit = 10

// DestinationReader is the read-only data access the catalog endpoints need
type DestinationReader interface {
	ListDestinations(ctx context.Context, limit int) ([]model.DestinationSummary, error)
	GetDestination(ctx context.Context, id int64) (*model.Destination, error)
	GetUserPreference(ctx context.Context, userID int64) (*model.UserPreference, error)
}

// CatalogHandler serves destinations and the placeholder catalog endpoints
type CatalogHandler struct {
	repo DestinationReader // nil when the database is disabled
}

// NewCatalogHandler creates a new catalog handler. repo may be nil.
func NewCatalogHandler(repo DestinationReader) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// Destinations handles GET /api/destinations/. Any data-access failure yields
// an empty list. With ?id= it returns that destination's full row instead.
func (h *CatalogHandler) Destinations(c *gin.Context) {
	if raw := c.Query("id"); raw != "" {
		h.destination(c, raw)
		return
	}

	if h.repo == nil {
		c.JSON(http.StatusOK, []model.DestinationSummary{})
		return
	}

	destinations, err := h.repo.ListDestinations(c.Request.Context(), destinationsLimit)
	if err != nil {
		log.Printf("⚠️  Failed to list destinations: %v", err)
		c.JSON(http.StatusOK, []model.DestinationSummary{})
		return
	}

	c.JSON(http.StatusOK, destinations)
}

func (h *CatalogHandler) destination(c *gin.Context, raw string) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination ID"})
		return
	}
	if h.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found"})
		return
	}

	dest, err := h.repo.GetDestination(c.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found"})
	case err != nil:
		log.Printf("⚠️  Failed to load destination %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load destination"})
	default:
		c.JSON(http.StatusOK, dest)
	}
}

// Recommendations handles GET /api/recommendations/. With ?user_id= the
// stored preferences of that user are echoed back when available.
func (h *CatalogHandler) Recommendations(c *gin.Context) {
	response := gin.H{
		"message": "Endpoint recommandations opérationnel. Ajoutez ici la logique de recommandations personnalisées !",
	}

	if raw := c.Query("user_id"); raw != "" && h.repo != nil {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		pref, err := h.repo.GetUserPreference(c.Request.Context(), userID)
		switch {
		case err == nil:
			response["preferences"] = pref
		case errors.Is(err, repository.ErrNotFound):
		default:
			log.Printf("⚠️  Failed to load preferences for user %d: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, response)
}

// CollectExternalData handles GET /api/collect-external-data/
func (h *CatalogHandler) CollectExternalData(c *gin.Context) {
	c.JSON(http.StatusOK, model.Message{
		Message: "Endpoint collect_external_data opérationnel. À personnaliser selon vos besoins !",
	})
}
