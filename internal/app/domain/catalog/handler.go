package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

// ListFlights handles GET /flights?from=&to=.
func (h *Handler) ListFlights(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	result := h.service.Flights(from, to)
	h.log.Debug("Flights search", zap.String("from", from), zap.String("to", to), zap.Int("results", len(result)))
	c.JSON(http.StatusOK, gin.H{"flights": result})
}

// ListHotels handles GET /hotels?location=.
func (h *Handler) ListHotels(c *gin.Context) {
	location := c.Query("location")
	result := h.service.Hotels(location)
	h.log.Debug("Hotels search", zap.String("location", location), zap.Int("results", len(result)))
	c.JSON(http.StatusOK, gin.H{"hotels": result})
}
