package llmchat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/app/observability/metrics"
)

var _ InteractionRepository = (*InteractionRepositoryImpl)(nil)

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InteractionRepository persists upstream call records.
type InteractionRepository interface {
	SaveInteraction(ctx context.Context, interaction models.LlmInteraction) (uuid.UUID, error)
}

type InteractionRepositoryImpl struct {
	logger *zap.Logger
	db     DB
}

func NewInteractionRepositoryImpl(db DB, logger *zap.Logger) *InteractionRepositoryImpl {
	return &InteractionRepositoryImpl{
		logger: logger,
		db:     db,
	}
}

func (r *InteractionRepositoryImpl) SaveInteraction(ctx context.Context, in models.LlmInteraction) (uuid.UUID, error) {
	query := `
        INSERT INTO llm_interactions (
            request_id, intent, destination, prompt, prompt_hash, response_text,
            model_used, provider, prompt_tokens, completion_tokens, total_tokens,
            latency_ms, status_code, error_message, temperature, max_tokens,
            cost_estimate_usd, cache_hit, cache_key, user_agent, device_type, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
            $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
        )
        RETURNING id`

	start := time.Now()
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		in.RequestID, in.Intent, nullable(in.Destination), in.Prompt, in.PromptHash, in.ResponseText,
		in.ModelUsed, in.Provider, in.PromptTokens, in.CompletionTokens, in.TotalTokens,
		in.LatencyMs, in.StatusCode, nullable(in.ErrorMessage), in.Temperature, in.MaxTokens,
		in.CostEstimateUSD, in.CacheHit, nullable(in.CacheKey), nullable(in.UserAgent), nullable(in.DeviceType), in.Timestamp,
	).Scan(&id)

	attrs := metric.WithAttributes(attribute.String("operation", "save_llm_interaction"))
	metrics.Get().DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1, attrs)
		r.logger.Warn("Failed to insert llm interaction", zap.String("intent", in.Intent), zap.Error(err))
		return uuid.Nil, fmt.Errorf("error saving llm interaction: %w", err)
	}
	return id, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
