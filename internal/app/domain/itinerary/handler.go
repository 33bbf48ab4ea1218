package itinerary

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// GenerateItinerary handles POST /generate-itinerary. Every failure is a 500 with {error}.
func (h *Handler) GenerateItinerary(c *gin.Context) {
	var req models.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid itinerary request body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	it, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Error generating itinerary", zap.String("destination", req.Destination), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, it.WithDefaults())
}

// GetItinerary handles GET /itineraries/:id.
func (h *Handler) GetItinerary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	saved, err := h.service.GetItinerary(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
			return
		}
		h.log.Error("Failed to load itinerary", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load itinerary"})
		return
	}

	c.JSON(http.StatusOK, saved)
}

// ListItineraries handles GET /itineraries?destination=&limit=.
func (h *Handler) ListItineraries(c *gin.Context) {
	params := models.ListItinerariesParams{Destination: c.Query("destination")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		params.Limit = limit
	}

	list, err := h.service.ListItineraries(c.Request.Context(), params)
	if err != nil {
		h.log.Error("Failed to list itineraries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list itineraries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"itineraries": list})
}

func errorMessage(err error) string {
	if errors.Is(err, models.ErrMalformedItineraryResponse) {
		return "Failed to parse itinerary response"
	}
	return err.Error()
}
