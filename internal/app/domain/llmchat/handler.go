package llmchat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

const (
	rateLimitedMessage = "Rate limit exceeded. Please try again in a moment."
	quotaMessage       = "Usage limit reached. Please try again later."
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

// ChatAssistant handles POST /chat-assistant.
func (h *Handler) ChatAssistant(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid chat request body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx := WithUserAgent(c.Request.Context(), c.Request.UserAgent())
	reply, err := h.service.Reply(ctx, req)
	if err != nil {
		status, message := chatError(err)
		h.log.Error("Error in chat assistant", zap.Int("status", status), zap.Error(err))
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}

func chatError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests, rateLimitedMessage
	case errors.Is(err, models.ErrUpstreamQuotaExceeded):
		return http.StatusPaymentRequired, quotaMessage
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
