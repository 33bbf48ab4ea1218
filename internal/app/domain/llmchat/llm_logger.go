package llmchat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

// LLMLogger records every upstream completion call, asynchronously by default.
type LLMLogger struct {
	logger *zap.Logger
	repo   InteractionRepository
	redact bool
	wg     sync.WaitGroup
}

// NewLLMLogger creates a logger. repo may be nil, in which case interactions
// are only written to the structured log.
func NewLLMLogger(logger *zap.Logger, repo InteractionRepository, redactPrompts bool) *LLMLogger {
	return &LLMLogger{
		logger: logger,
		repo:   repo,
		redact: redactPrompts,
	}
}

// Pricing per 1M tokens for the models the gateway routes to.
var modelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	"gemini-2.5-pro":        {InputPer1M: 1.25, OutputPer1M: 10.00},
	"gemini-2.5-flash-lite": {InputPer1M: 0.10, OutputPer1M: 0.40},
	"gemini-2.5-flash":      {InputPer1M: 0.30, OutputPer1M: 2.50},
	"gemini-2.0-flash":      {InputPer1M: 0.10, OutputPer1M: 0.40},
	"gemini-1.5-flash":      {InputPer1M: 0.075, OutputPer1M: 0.30},
}

// CalculateCost estimates the cost in USD of one interaction. The longest
// matching model key wins so flash-lite is not priced as flash.
func CalculateCost(modelName string, promptTokens, completionTokens int) float64 {
	normalized := strings.ToLower(modelName)
	best := ""
	for key := range modelPricing {
		if strings.Contains(normalized, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return 0
	}
	pricing := modelPricing[best]
	inputCost := (float64(promptTokens) / 1_000_000) * pricing.InputPer1M
	outputCost := (float64(completionTokens) / 1_000_000) * pricing.OutputPer1M
	return inputCost + outputCost
}

// HashPrompt creates a SHA256 hash of the prompt for anonymized tracking
func HashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

// DetermineDeviceType extracts device type from user agent
func DetermineDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") {
		return "ios"
	}
	if strings.Contains(ua, "android") {
		return "android"
	}
	if strings.Contains(ua, "mobile") {
		return "mobile"
	}
	if strings.Contains(ua, "electron") {
		return "desktop"
	}
	return "web"
}

type userAgentKey struct{}

// WithUserAgent attaches the caller's user agent for the interaction log.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

func userAgentFrom(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}

// LogInteractionAsync logs without blocking the request. The write outlives
// request cancellation.
func (l *LLMLogger) LogInteractionAsync(ctx context.Context, interaction models.LlmInteraction) {
	asyncCtx := context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.LogInteractionSync(asyncCtx, interaction); err != nil {
			l.logger.Error("Failed to log LLM interaction asynchronously",
				zap.String("intent", interaction.Intent),
				zap.Error(err))
		}
	}()
}

// Wait blocks until pending asynchronous writes finish.
func (l *LLMLogger) Wait() {
	l.wg.Wait()
}

// LogInteractionSync enriches and persists interaction.
func (l *LLMLogger) LogInteractionSync(ctx context.Context, interaction models.LlmInteraction) error {
	ctx, span := otel.Tracer("LLMLogger").Start(ctx, "logInteraction",
		trace.WithAttributes(
			attribute.String("intent", interaction.Intent),
			attribute.String("model", interaction.ModelUsed),
			attribute.Int("latency_ms", interaction.LatencyMs),
			attribute.Int("status_code", interaction.StatusCode),
		))
	defer span.End()

	in := l.enrich(ctx, interaction)

	l.logger.Info("LLM interaction",
		zap.String("request_id", in.RequestID.String()),
		zap.String("intent", in.Intent),
		zap.String("provider", in.Provider),
		zap.String("model", in.ModelUsed),
		zap.Int("status_code", in.StatusCode),
		zap.Bool("cache_hit", in.CacheHit),
		zap.Int("prompt_tokens", in.PromptTokens),
		zap.Int("completion_tokens", in.CompletionTokens),
		zap.Float64("cost_usd", *in.CostEstimateUSD),
		zap.Int("latency_ms", in.LatencyMs))

	if l.repo == nil {
		return nil
	}
	savedID, err := l.repo.SaveInteraction(ctx, in)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save LLM interaction: %w", err)
	}
	span.SetAttributes(attribute.String("interaction_id", savedID.String()))
	return nil
}

func (l *LLMLogger) enrich(ctx context.Context, in models.LlmInteraction) models.LlmInteraction {
	if in.RequestID == uuid.Nil {
		in.RequestID = uuid.New()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	if in.UserAgent == "" {
		in.UserAgent = userAgentFrom(ctx)
	}
	if in.DeviceType == "" && in.UserAgent != "" {
		in.DeviceType = DetermineDeviceType(in.UserAgent)
	}
	cost := CalculateCost(in.ModelUsed, in.PromptTokens, in.CompletionTokens)
	in.CostEstimateUSD = &cost

	in.PromptHash = HashPrompt(in.Prompt)
	if l.redact {
		in.Prompt = ""
		in.ResponseText = ""
	}
	return in
}
