package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

func parisRequest() models.ItineraryRequest {
	return models.ItineraryRequest{
		Destination: "Paris, France",
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-03",
		Budget:      "luxury",
		TravelType:  "couple",
		Style:       "relaxed",
		Preferences: []string{"food", "art"},
	}
}

func TestNumDays(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		want    int
		wantErr error
	}{
		{name: "same day", start: "2025-06-01", end: "2025-06-01", want: 1},
		{name: "three days", start: "2025-06-01", end: "2025-06-03", want: 3},
		{name: "across month", start: "2025-01-30", end: "2025-02-02", want: 4},
		{name: "rfc3339 timestamps", start: "2025-06-01T10:00:00Z", end: "2025-06-02T08:00:00Z", want: 2},
		{name: "end before start", start: "2025-06-03", end: "2025-06-01", wantErr: models.ErrInvalidDateRange},
		{name: "garbage", start: "tomorrow", end: "2025-06-01", wantErr: models.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NumDays(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, numDays, err := BuildPrompt(ApplyDefaults(parisRequest()))
	require.NoError(t, err)

	assert.Equal(t, 3, numDays)
	assert.True(t, strings.HasPrefix(prompt, "You are an expert travel planner. Create a detailed 3-day itinerary for Paris, France."))
	assert.Contains(t, prompt, "- Dates: 2025-06-01 to 2025-06-03 (3 days)")
	assert.Contains(t, prompt, "- Budget: luxury")
	assert.Contains(t, prompt, "- Travel type: couple")
	assert.Contains(t, prompt, "- Style: relaxed")
	assert.Contains(t, prompt, "- Preferences: food, art")
	assert.Contains(t, prompt, "- Hotel preference: boutique")
	assert.Contains(t, prompt, "- Food preference: local")
	assert.Contains(t, prompt, `"destination": "Paris, France"`)
	assert.Contains(t, prompt, "- Use REAL coordinates for Paris, France")
	assert.True(t, strings.HasSuffix(prompt, "- Return ONLY valid JSON, no markdown"))
}

func TestBuildPromptSingleDay(t *testing.T) {
	req := parisRequest()
	req.EndDate = req.StartDate
	prompt, numDays, err := BuildPrompt(ApplyDefaults(req))
	require.NoError(t, err)
	assert.Equal(t, 1, numDays)
	assert.Contains(t, prompt, "1-day itinerary")
}

func TestBuildPromptMissingFields(t *testing.T) {
	req := parisRequest()
	req.Destination = "  "
	req.EndDate = ""

	_, _, err := BuildPrompt(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "destination")
	assert.Contains(t, err.Error(), "endDate")
	assert.NotContains(t, err.Error(), "startDate")
}

func TestBuildPromptInvalidRange(t *testing.T) {
	req := parisRequest()
	req.StartDate, req.EndDate = req.EndDate, req.StartDate

	_, _, err := BuildPrompt(ApplyDefaults(req))
	assert.ErrorIs(t, err, models.ErrInvalidDateRange)
}

func TestApplyDefaults(t *testing.T) {
	req := ApplyDefaults(models.ItineraryRequest{
		Destination: " Tokyo ",
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-02",
	})

	assert.Equal(t, "Tokyo", req.Destination)
	assert.Equal(t, DefaultBudget, req.Budget)
	assert.Equal(t, DefaultTravelType, req.TravelType)
	assert.Equal(t, DefaultStyle, req.Style)
	assert.Equal(t, DefaultHotelPreference, req.HotelPreference)
	assert.Equal(t, DefaultFoodPreference, req.FoodPreference)
	assert.Equal(t, []string{"culture", "food"}, req.Preferences)

	req.Preferences[0] = "mutated"
	assert.Equal(t, "culture", DefaultPreferences[0])
}

func TestBuildPromptEscapesDestinationInSchema(t *testing.T) {
	req := parisRequest()
	req.Destination = `The "Big" Apple`
	prompt, _, err := BuildPrompt(ApplyDefaults(req))
	require.NoError(t, err)
	assert.Contains(t, prompt, `"destination": "The \"Big\" Apple"`)
}
