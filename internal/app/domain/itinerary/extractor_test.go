package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

const parisResponse = `{
  "destination": "Paris",
  "summary": "A short stay in the city of light.",
  "days": [
    {
      "day": 1,
      "date": "2025-06-01",
      "title": "Arrival",
      "activities": [
        {
          "time": "09:00",
          "title": "Louvre",
          "type": "culture",
          "duration": "3h",
          "location": {"name": "Louvre Museum", "lat": 48.8606, "lng": 2.3376}
        },
        {
          "time": "13:00",
          "title": "Picnic",
          "type": "picnic",
          "duration": "1h",
          "location": {"name": "Tuileries", "lat": 48.8635, "lng": 2.3275}
        }
      ]
    }
  ],
  "places": {"hotels": [], "restaurants": [], "attractions": [], "experiences": []},
  "trending": []
}`

func TestExtractLenient(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "bare json", raw: parisResponse},
		{name: "prose around json", raw: "Sure! Here is your plan:\n" + parisResponse + "\nEnjoy your trip."},
		{name: "markdown fence", raw: "```json\n" + parisResponse + "\n```"},
		{name: "no json at all", raw: "I cannot help with that.", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "missing destination", raw: `{"days": []}`, wantErr: true},
		{name: "empty destination", raw: `{"destination": " ", "days": []}`, wantErr: true},
		{name: "missing days", raw: `{"destination": "Paris"}`, wantErr: true},
		{name: "null days", raw: `{"destination": "Paris", "days": null}`, wantErr: true},
		{name: "days wrong type", raw: `{"destination": "Paris", "days": "one"}`, wantErr: true},
		{name: "truncated", raw: `{"destination": "Paris", "days": [`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Extractor{}.Extract(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrMalformedItineraryResponse)
				assert.Nil(t, it)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Paris", it.Destination)
			require.Len(t, it.Days, 1)
			assert.Len(t, it.Days[0].Activities, 2)
		})
	}
}

func TestExtractEmptyDaysIsAccepted(t *testing.T) {
	it, err := Extractor{}.Extract(`{"destination": "Paris", "days": []}`)
	require.NoError(t, err)
	assert.Empty(t, it.Days)

	out := it.WithDefaults()
	assert.NotNil(t, out.Days)
	assert.NotNil(t, out.Trending)
	assert.NotNil(t, out.Places.Hotels)
}

func TestExtractUnknownActivityTypeDegrades(t *testing.T) {
	it, err := Extractor{}.Extract(parisResponse)
	require.NoError(t, err)

	acts := it.Days[0].Activities
	assert.Equal(t, models.ActivityCulture, acts[0].Kind())
	assert.Equal(t, models.ActivityType("picnic"), acts[1].Type)
	assert.Equal(t, models.DefaultActivityType, acts[1].Kind())
}

func TestExtractStrict(t *testing.T) {
	strict := Extractor{Strict: true}

	it, err := strict.Extract("```json\n" + parisResponse + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Paris", it.Destination)

	_, err = strict.Extract("Here you go: " + parisResponse)
	assert.ErrorIs(t, err, models.ErrMalformedItineraryResponse)
}

func TestExtractLooselyTypedNumbers(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, it *models.Itinerary)
	}{
		{
			name: "rating as string",
			raw:  `{"destination":"Paris","days":[],"places":{"hotels":[{"name":"H","rating":"4.5"}]}}`,
			check: func(t *testing.T, it *models.Itinerary) {
				require.Len(t, it.Places.Hotels, 1)
				assert.InDelta(t, 4.5, it.Places.Hotels[0].Rating, 1e-9)
			},
		},
		{
			name: "reviews as float",
			raw:  `{"destination":"Paris","days":[],"places":{"restaurants":[{"name":"R","reviews":1250.0}]}}`,
			check: func(t *testing.T, it *models.Itinerary) {
				require.Len(t, it.Places.Restaurants, 1)
				assert.Equal(t, 1250, it.Places.Restaurants[0].Reviews)
			},
		},
		{
			name: "day as string",
			raw:  `{"destination":"Paris","days":[{"day":"1","title":"Arrival","activities":[]}]}`,
			check: func(t *testing.T, it *models.Itinerary) {
				require.Len(t, it.Days, 1)
				assert.Equal(t, 1, it.Days[0].Day)
				assert.Equal(t, "Arrival", it.Days[0].Title)
			},
		},
		{
			name: "lat as string",
			raw:  `{"destination":"Paris","days":[{"day":1,"activities":[{"title":"Louvre","location":{"name":"Louvre","lat":"48.85","lng":2.33}}]}]}`,
			check: func(t *testing.T, it *models.Itinerary) {
				loc := it.Days[0].Activities[0].Location
				assert.Equal(t, "Louvre", loc.Name)
				assert.InDelta(t, 48.85, loc.Lat, 1e-9)
				assert.InDelta(t, 2.33, loc.Lng, 1e-9)
			},
		},
		{
			name: "non numeric values become zero",
			raw:  `{"destination":"Paris","days":[],"places":{"attractions":[{"name":"A","rating":"NaN","reviews":true,"location":{"lat":null,"lng":"n/a"}}]}}`,
			check: func(t *testing.T, it *models.Itinerary) {
				require.Len(t, it.Places.Attractions, 1)
				a := it.Places.Attractions[0]
				assert.Equal(t, "A", a.Name)
				assert.Zero(t, a.Rating)
				assert.Zero(t, a.Reviews)
				assert.Zero(t, a.Location.Lat)
				assert.Zero(t, a.Location.Lng)
			},
		},
		{
			name: "location as plain name",
			raw:  `{"destination":"Paris","days":[{"day":1,"activities":[{"title":"Walk","location":"Le Marais"}]}]}`,
			check: func(t *testing.T, it *models.Itinerary) {
				assert.Equal(t, "Le Marais", it.Days[0].Activities[0].Location.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Extractor{}.Extract("Here you go:\n" + tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "Paris", it.Destination)
			tt.check(t, it)
		})
	}
}
