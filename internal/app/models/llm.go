package models

import (
	"time"

	"github.com/google/uuid"
)

// LlmInteraction is one logged upstream completion call.
type LlmInteraction struct {
	ID               uuid.UUID `json:"id"`
	RequestID        uuid.UUID `json:"request_id"`
	Intent           string    `json:"intent"`
	Destination      string    `json:"destination,omitempty"`
	Prompt           string    `json:"prompt"`
	PromptHash       string    `json:"prompt_hash,omitempty"`
	ResponseText     string    `json:"response_text"`
	ModelUsed        string    `json:"model_used"`
	Provider         string    `json:"provider"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	LatencyMs        int       `json:"latency_ms"`
	StatusCode       int       `json:"status_code"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	MaxTokens        *int      `json:"max_tokens,omitempty"`
	CostEstimateUSD  *float64  `json:"cost_estimate_usd,omitempty"`
	CacheHit         bool      `json:"cache_hit"`
	CacheKey         string    `json:"cache_key,omitempty"`
	UserAgent        string    `json:"user_agent,omitempty"`
	DeviceType       string    `json:"device_type,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
