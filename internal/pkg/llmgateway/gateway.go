// Package llmgateway talks to the upstream chat-completion service.
package llmgateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/config"
)

// CompletionRequest is one chat-completion call.
type CompletionRequest struct {
	Model       string
	Messages    []models.ChatMessage
	Temperature float64
	MaxTokens   int
}

// CompletionResponse is the first choice of a completion plus usage.
type CompletionResponse struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is implemented by every upstream provider.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Provider() string
}

// StatusError carries the upstream HTTP status of a failed call.
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("AI API error: %d", e.StatusCode)
	}
	return fmt.Sprintf("AI API error: %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// classifyStatus maps an upstream status to one of the taxonomy errors.
func classifyStatus(status int, message string) error {
	kind := models.ErrNetworkOrUnknown
	switch status {
	case http.StatusTooManyRequests:
		kind = models.ErrUpstreamRateLimited
	case http.StatusPaymentRequired:
		kind = models.ErrUpstreamQuotaExceeded
	}
	return &StatusError{StatusCode: status, Message: message, kind: kind}
}

// New builds the client selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGateway, "":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
