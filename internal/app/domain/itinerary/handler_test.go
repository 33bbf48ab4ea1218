package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/llmgateway"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Generate(ctx context.Context, req models.ItineraryRequest) (*models.Itinerary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Itinerary), args.Error(1)
}

func (m *MockService) GetItinerary(ctx context.Context, id uuid.UUID) (*models.SavedItinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedItinerary), args.Error(1)
}

func (m *MockService) ListItineraries(ctx context.Context, params models.ListItinerariesParams) ([]models.SavedItinerary, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedItinerary), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/generate-itinerary", h.GenerateItinerary)
	r.GET("/itineraries", h.ListItineraries)
	r.GET("/itineraries/:id", h.GetItinerary)
	return r
}

func TestGenerateItineraryHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("Generate", mock.Anything, mock.MatchedBy(func(req models.ItineraryRequest) bool {
		return req.Destination == "Paris, France" && req.StartDate == "2025-06-01"
	})).Return(&models.Itinerary{Destination: "Paris"}, nil)

	body := `{"destination":"Paris, France","startDate":"2025-06-01","endDate":"2025-06-03","preferences":["food"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate-itinerary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Paris", got["destination"])
	assert.Equal(t, []any{}, got["days"])
	assert.Equal(t, []any{}, got["trending"])
}

func TestGenerateItineraryHandlerFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		wantMsg string
	}{
		{name: "missing field", body: `{"destination":""}`, err: fmt.Errorf("destination: %w", models.ErrMissingRequiredField), wantMsg: "destination: missing required field"},
		{name: "rate limited", body: `{}`, err: &llmgateway.StatusError{StatusCode: 429}, wantMsg: "AI API error: 429"},
		{name: "malformed", body: `{}`, err: fmt.Errorf("%w: no json", models.ErrMalformedItineraryResponse), wantMsg: "Failed to parse itinerary response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/generate-itinerary", strings.NewReader(tt.body))
			setupRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			var got map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantMsg, got["error"])
		})
	}
}

func TestGenerateItineraryHandlerBadJSON(t *testing.T) {
	svc := new(MockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate-itinerary", strings.NewReader("{not json"))
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGetItineraryHandler(t *testing.T) {
	id := uuid.New()
	svc := new(MockService)
	svc.On("GetItinerary", mock.Anything, id).Return(&models.SavedItinerary{ID: id, Destination: "Paris"}, nil)
	missing := uuid.New()
	svc.On("GetItinerary", mock.Anything, missing).Return(nil, models.ErrNotFound)
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/itineraries/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/itineraries/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/itineraries/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListItinerariesHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("ListItineraries", mock.Anything, models.ListItinerariesParams{Destination: "rome", Limit: 3}).
		Return([]models.SavedItinerary{{Destination: "Rome"}}, nil)
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/itineraries?destination=rome&limit=3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Rome"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/itineraries?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
