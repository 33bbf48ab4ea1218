package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

var savedColumns = []string{"id", "destination", "start_date", "end_date", "num_days", "request", "itinerary", "created_at"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryImpl) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepositoryImpl(mock, zap.NewNop())
}

func TestSaveItinerary(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()
	req := ApplyDefaults(parisRequest())
	it := models.Itinerary{Destination: "Paris", Days: []models.ItineraryDay{{Day: 1}}}

	mock.ExpectQuery(`INSERT INTO itineraries`).
		WithArgs("Paris", "2025-06-01", "2025-06-03", 3, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	got, err := repo.SaveItinerary(context.Background(), req, 3, it)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveItineraryError(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery(`INSERT INTO itineraries`).WillReturnError(errors.New("connection reset"))

	_, err := repo.SaveItinerary(context.Background(), parisRequest(), 3, models.Itinerary{Destination: "Paris"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItinerary(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()
	created := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	reqJSON, _ := json.Marshal(parisRequest())
	itJSON, _ := json.Marshal(models.Itinerary{Destination: "Paris", Summary: "Lovely"})

	mock.ExpectQuery(`SELECT id, destination, start_date, end_date, num_days, request, itinerary, created_at\s+FROM itineraries\s+WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(savedColumns).
			AddRow(id, "Paris, France", "2025-06-01", "2025-06-03", 3, reqJSON, itJSON, created))

	saved, err := repo.GetItinerary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, 3, saved.NumDays)
	assert.Equal(t, "Lovely", saved.Itinerary.Summary)
	assert.Equal(t, []string{"food", "art"}, saved.Request.Preferences)
	assert.Equal(t, created, saved.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItineraryNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT id, destination`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetItinerary(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItineraries(t *testing.T) {
	mock, repo := newMockRepo(t)
	reqJSON, _ := json.Marshal(parisRequest())
	itJSON, _ := json.Marshal(models.Itinerary{Destination: "Paris"})

	mock.ExpectQuery(`SELECT id, destination, start_date, end_date, num_days, request, itinerary, created_at FROM itineraries WHERE destination ILIKE \$1 ORDER BY created_at DESC LIMIT 5`).
		WithArgs("%par%").
		WillReturnRows(pgxmock.NewRows(savedColumns).
			AddRow(uuid.New(), "Paris", "2025-06-01", "2025-06-03", 3, reqJSON, itJSON, time.Now()).
			AddRow(uuid.New(), "Paris", "2025-07-01", "2025-07-02", 2, reqJSON, itJSON, time.Now()))

	list, err := repo.ListItineraries(context.Background(), models.ListItinerariesParams{Destination: "par", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, list[1].NumDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItinerariesCapsLimit(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery(`FROM itineraries ORDER BY created_at DESC LIMIT 100`).
		WillReturnRows(pgxmock.NewRows(savedColumns))

	list, err := repo.ListItineraries(context.Background(), models.ListItinerariesParams{Limit: 10000})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
