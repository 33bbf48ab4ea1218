package llmchat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/llmgateway"
)

const (
	ChatTemperature = 0.7
	ChatMaxTokens   = 1500
)

var _ Service = (*ServiceImpl)(nil)

// Service answers one chat turn.
type Service interface {
	Reply(ctx context.Context, req models.ChatRequest) (string, error)
}

type ServiceImpl struct {
	logger    *zap.Logger
	llm       llmgateway.Client
	model     string
	llmLogger *LLMLogger
}

func NewServiceImpl(llm llmgateway.Client, model string, llmLogger *LLMLogger, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		llm:       llm,
		model:     model,
		llmLogger: llmLogger,
	}
}

// Reply composes the turn and forwards it upstream. History is not stored.
func (s *ServiceImpl) Reply(ctx context.Context, req models.ChatRequest) (string, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Reply", trace.WithAttributes(
		attribute.Int("chat.history_length", len(req.History)),
		attribute.Bool("chat.has_itinerary", req.Itinerary != nil),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Reply"))

	if err := validateHistory(req.History); err != nil {
		span.SetStatus(codes.Error, "invalid history")
		return "", err
	}

	messages := ComposeChatTurn(req.Message, req.Itinerary, req.History)
	l.Info("Calling AI gateway", zap.Int("messages", len(messages)), zap.Int("message_length", len(req.Message)))

	start := time.Now()
	resp, err := s.llm.Complete(ctx, llmgateway.CompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: ChatTemperature,
		MaxTokens:   ChatMaxTokens,
	})
	latency := time.Since(start)
	s.record(ctx, latency, req, resp, err)

	if err != nil {
		l.Error("AI API error", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream call failed")
		return "", err
	}

	l.Info("AI response received successfully", zap.Duration("latency", latency))
	span.SetStatus(codes.Ok, "reply generated")
	return resp.Content, nil
}

func validateHistory(history []models.ChatMessage) error {
	for i, m := range history {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			return fmt.Errorf("history[%d] has role %q: %w", i, m.Role, models.ErrValidation)
		}
	}
	return nil
}

func (s *ServiceImpl) record(ctx context.Context, latency time.Duration, req models.ChatRequest, resp *llmgateway.CompletionResponse, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, models.ErrUpstreamRateLimited):
		outcome = "rate_limited"
	case errors.Is(err, models.ErrUpstreamQuotaExceeded):
		outcome = "quota_exceeded"
	case err != nil:
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("intent", "chat"),
		attribute.String("provider", s.llm.Provider()),
		attribute.String("outcome", outcome),
	)
	m := metrics.Get()
	m.LLMRequestsTotal.Add(ctx, 1, attrs)
	m.LLMRequestDuration.Record(ctx, latency.Seconds(), attrs)

	if s.llmLogger == nil {
		return
	}
	temperature := ChatTemperature
	maxTokens := ChatMaxTokens
	in := models.LlmInteraction{
		Intent:      "chat",
		Prompt:      req.Message,
		ModelUsed:   s.model,
		Provider:    s.llm.Provider(),
		LatencyMs:   int(latency.Milliseconds()),
		StatusCode:  statusCodeFor(err),
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
	if req.Itinerary != nil {
		in.Destination = strings.TrimSpace(req.Itinerary.Destination)
	}
	if resp != nil {
		m.LLMTokensTotal.Add(ctx, int64(resp.TotalTokens), attrs)
		in.ResponseText = resp.Content
		if resp.Model != "" {
			in.ModelUsed = resp.Model
		}
		in.PromptTokens = resp.PromptTokens
		in.CompletionTokens = resp.CompletionTokens
		in.TotalTokens = resp.TotalTokens
	}
	if err != nil {
		in.ErrorMessage = err.Error()
	}
	s.llmLogger.LogInteractionAsync(ctx, in)
}

func statusCodeFor(err error) int {
	var statusErr *llmgateway.StatusError
	switch {
	case err == nil:
		return 200
	case errors.As(err, &statusErr):
		return statusErr.StatusCode
	default:
		return 500
	}
}
