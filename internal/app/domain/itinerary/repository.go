package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/app/observability/metrics"
)

var _ Repository = (*RepositoryImpl)(nil)

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists generated itineraries.
type Repository interface {
	SaveItinerary(ctx context.Context, req models.ItineraryRequest, numDays int, it models.Itinerary) (uuid.UUID, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (*models.SavedItinerary, error)
	ListItineraries(ctx context.Context, params models.ListItinerariesParams) ([]models.SavedItinerary, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	db     DB
}

func NewRepositoryImpl(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const maxListLimit = 100

func (r *RepositoryImpl) SaveItinerary(ctx context.Context, req models.ItineraryRequest, numDays int, it models.Itinerary) (uuid.UUID, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "SaveItinerary", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("itinerary.destination", it.Destination),
	))
	defer span.End()
	start := time.Now()

	requestJSON, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal itinerary request: %w", err)
	}
	itineraryJSON, err := json.Marshal(it)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	query := `
        INSERT INTO itineraries (destination, start_date, end_date, num_days, request, itinerary)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, it.Destination, req.StartDate, req.EndDate, numDays, requestJSON, itineraryJSON).Scan(&id)
	r.observe(ctx, "save_itinerary", start, err)
	if err != nil {
		r.logger.Error("Failed to save itinerary", zap.String("destination", it.Destination), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return uuid.Nil, fmt.Errorf("error saving itinerary: %w", err)
	}

	span.SetAttributes(attribute.String("itinerary.id", id.String()))
	span.SetStatus(codes.Ok, "itinerary saved")
	return id, nil
}

func (r *RepositoryImpl) GetItinerary(ctx context.Context, id uuid.UUID) (*models.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "GetItinerary", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("itinerary.id", id.String()),
	))
	defer span.End()
	start := time.Now()

	query := `
        SELECT id, destination, start_date, end_date, num_days, request, itinerary, created_at
        FROM itineraries
        WHERE id = $1`

	saved, err := scanSaved(r.db.QueryRow(ctx, query, id))
	r.observe(ctx, "get_itinerary", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, fmt.Errorf("itinerary %s: %w", id, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, fmt.Errorf("error fetching itinerary: %w", err)
	}
	return saved, nil
}

func (r *RepositoryImpl) ListItineraries(ctx context.Context, params models.ListItinerariesParams) ([]models.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "ListItineraries", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("filter.destination", params.Destination),
	))
	defer span.End()
	start := time.Now()

	limit := params.Limit
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	builder := squirrel.Select("id", "destination", "start_date", "end_date", "num_days", "request", "itinerary", "created_at").
		From("itineraries").
		OrderBy("created_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar)
	if params.Destination != "" {
		builder = builder.Where(squirrel.ILike{"destination": "%" + params.Destination + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.observe(ctx, "list_itineraries", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("error listing itineraries: %w", err)
	}
	defer rows.Close()

	out := make([]models.SavedItinerary, 0)
	for rows.Next() {
		saved, err := scanSaved(rows)
		if err != nil {
			r.observe(ctx, "list_itineraries", start, err)
			return nil, fmt.Errorf("error scanning itinerary: %w", err)
		}
		out = append(out, *saved)
	}
	err = rows.Err()
	r.observe(ctx, "list_itineraries", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating itineraries: %w", err)
	}

	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}

func scanSaved(row pgx.Row) (*models.SavedItinerary, error) {
	var (
		saved         models.SavedItinerary
		requestJSON   []byte
		itineraryJSON []byte
	)
	if err := row.Scan(&saved.ID, &saved.Destination, &saved.StartDate, &saved.EndDate, &saved.NumDays,
		&requestJSON, &itineraryJSON, &saved.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(requestJSON, &saved.Request); err != nil {
		return nil, fmt.Errorf("decoding stored request: %w", err)
	}
	if err := json.Unmarshal(itineraryJSON, &saved.Itinerary); err != nil {
		return nil, fmt.Errorf("decoding stored itinerary: %w", err)
	}
	return &saved, nil
}

func (r *RepositoryImpl) observe(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("operation", op))
	m.DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		m.DBQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
