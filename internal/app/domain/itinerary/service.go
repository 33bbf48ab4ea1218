package itinerary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/cache"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/llmgateway"
)

var _ Service = (*ServiceImpl)(nil)

// Service generates and retrieves itineraries.
type Service interface {
	Generate(ctx context.Context, req models.ItineraryRequest) (*models.Itinerary, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*models.SavedItinerary, error)
	ListItineraries(ctx context.Context, params models.ListItinerariesParams) ([]models.SavedItinerary, error)
}

// InteractionLogger records upstream calls; implemented by llmchat.LLMLogger.
type InteractionLogger interface {
	LogInteractionAsync(ctx context.Context, interaction models.LlmInteraction)
}

type ServiceImpl struct {
	logger    *zap.Logger
	llm       llmgateway.Client
	model     string
	extractor Extractor
	cache     *cache.UnifiedCache[models.Itinerary]
	repo      Repository
	llmLogger InteractionLogger
}

// Option configures optional collaborators of ServiceImpl.
type Option func(*ServiceImpl)

func WithCache(c *cache.UnifiedCache[models.Itinerary]) Option {
	return func(s *ServiceImpl) { s.cache = c }
}

func WithRepository(r Repository) Option {
	return func(s *ServiceImpl) { s.repo = r }
}

func WithInteractionLogger(l InteractionLogger) Option {
	return func(s *ServiceImpl) { s.llmLogger = l }
}

func WithStrictExtraction(strict bool) Option {
	return func(s *ServiceImpl) { s.extractor.Strict = strict }
}

func NewServiceImpl(llm llmgateway.Client, model string, logger *zap.Logger, opts ...Option) *ServiceImpl {
	s := &ServiceImpl{
		logger: logger,
		llm:    llm,
		model:  model,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds the prompt, calls the model and extracts the itinerary.
func (s *ServiceImpl) Generate(ctx context.Context, req models.ItineraryRequest) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("itinerary.destination", req.Destination),
		attribute.String("itinerary.start_date", req.StartDate),
		attribute.String("itinerary.end_date", req.EndDate),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Generate"), zap.String("destination", req.Destination))

	if err := Validate(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}
	req = ApplyDefaults(req)

	prompt, numDays, err := BuildPrompt(req)
	if err != nil {
		l.Warn("Rejected itinerary request", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt build failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("itinerary.num_days", numDays))

	cacheKey := s.cacheKey(req)
	if s.cache != nil && cacheKey != "" {
		if cached, ok := s.cache.Get(cacheKey); ok {
			metrics.Get().ItineraryCacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "hit")))
			l.Info("Serving itinerary from cache", zap.String("cache_key", cacheKey))
			s.logInteraction(ctx, models.LlmInteraction{
				Prompt:      prompt,
				StatusCode:  200,
				CacheHit:    true,
				CacheKey:    cacheKey,
				Destination: req.Destination,
			}, nil)
			return &cached, nil
		}
		metrics.Get().ItineraryCacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "miss")))
	}

	l.Debug("Calling upstream model", zap.Int("num_days", numDays))
	start := time.Now()
	resp, err := s.llm.Complete(ctx, llmgateway.CompletionRequest{
		Model: s.model,
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: SystemPrompt},
			{Role: models.RoleUser, Content: prompt},
		},
		Temperature: GenerationTemperature,
		MaxTokens:   GenerationMaxTokens,
	})
	latency := time.Since(start)
	s.recordLLM(ctx, latency, resp, err)

	interaction := models.LlmInteraction{
		Prompt:      prompt,
		LatencyMs:   int(latency.Milliseconds()),
		CacheKey:    cacheKey,
		Destination: req.Destination,
	}
	if err != nil {
		l.Error("Upstream itinerary generation failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream call failed")
		s.logInteraction(ctx, interaction, err)
		return nil, fmt.Errorf("error generating itinerary: %w", err)
	}
	interaction.ResponseText = resp.Content
	interaction.ModelUsed = resp.Model
	interaction.PromptTokens = resp.PromptTokens
	interaction.CompletionTokens = resp.CompletionTokens
	interaction.TotalTokens = resp.TotalTokens

	it, err := s.extractor.Extract(resp.Content)
	if err != nil {
		l.Error("Failed to parse itinerary response", zap.Error(err), zap.Int("response_length", len(resp.Content)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		s.logInteraction(ctx, interaction, err)
		return nil, err
	}
	s.logInteraction(ctx, interaction, nil)

	for _, day := range it.Days {
		for _, a := range day.Activities {
			metrics.Get().ItineraryActivities.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(a.Kind()))))
		}
	}

	if s.cache != nil && cacheKey != "" {
		s.cache.Set(cacheKey, *it)
	}
	if s.repo != nil {
		if id, err := s.repo.SaveItinerary(ctx, req, numDays, *it); err != nil {
			l.Warn("Itinerary generated but not persisted", zap.Error(err))
		} else {
			span.SetAttributes(attribute.String("itinerary.id", id.String()))
		}
	}

	l.Info("Itinerary generated",
		zap.Int("days", len(it.Days)),
		zap.Int("activities", it.ActivityCount()),
		zap.Duration("latency", latency))
	span.SetStatus(codes.Ok, "itinerary generated")
	return it, nil
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, id uuid.UUID) (*models.SavedItinerary, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("itinerary storage disabled: %w", models.ErrNotFound)
	}
	return s.repo.GetItinerary(ctx, id)
}

func (s *ServiceImpl) ListItineraries(ctx context.Context, params models.ListItinerariesParams) ([]models.SavedItinerary, error) {
	if s.repo == nil {
		return []models.SavedItinerary{}, nil
	}
	return s.repo.ListItineraries(ctx, params)
}

func (s *ServiceImpl) cacheKey(req models.ItineraryRequest) string {
	if s.cache == nil {
		return ""
	}
	return cache.NewCacheKeyBuilder(s.logger).
		Add("intent", "itinerary").
		AddText("destination", req.Destination).
		Add("start", req.StartDate).
		Add("end", req.EndDate).
		AddText("budget", req.Budget).
		AddText("travel_type", req.TravelType).
		AddText("style", req.Style).
		AddTags("preferences", req.Preferences).
		AddText("hotel", req.HotelPreference).
		AddText("food", req.FoodPreference).
		BuildOrDefault()
}

func (s *ServiceImpl) recordLLM(ctx context.Context, latency time.Duration, resp *llmgateway.CompletionResponse, err error) {
	m := metrics.Get()
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
		attribute.String("intent", "itinerary"),
		attribute.String("provider", s.llm.Provider()),
		attribute.String("outcome", outcome),
	)
	m.LLMRequestsTotal.Add(ctx, 1, attrs)
	m.LLMRequestDuration.Record(ctx, latency.Seconds(), attrs)
	if resp != nil {
		m.LLMTokensTotal.Add(ctx, int64(resp.TotalTokens), attrs)
	}
}

func (s *ServiceImpl) logInteraction(ctx context.Context, in models.LlmInteraction, err error) {
	if s.llmLogger == nil {
		return
	}
	temperature := GenerationTemperature
	maxTokens := GenerationMaxTokens
	in.Intent = "itinerary"
	in.Provider = s.llm.Provider()
	if in.ModelUsed == "" {
		in.ModelUsed = s.model
	}
	in.Temperature = &temperature
	in.MaxTokens = &maxTokens
	if in.StatusCode == 0 {
		in.StatusCode = StatusCodeFor(err)
	}
	if err != nil {
		in.ErrorMessage = err.Error()
	}
	s.llmLogger.LogInteractionAsync(ctx, in)
}

// StatusCodeFor maps an upstream error to the HTTP status recorded in the interaction log.
func StatusCodeFor(err error) int {
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
