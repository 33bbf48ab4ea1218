package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

const (
	DefaultBudget          = "moderate"
	DefaultTravelType      = "solo"
	DefaultStyle           = "balanced"
	DefaultHotelPreference = "boutique"
	DefaultFoodPreference  = "local"

	// SystemPrompt leads every generation call.
	SystemPrompt = "You are a travel planning AI. Always respond with valid JSON only."

	GenerationTemperature = 0.7
	GenerationMaxTokens   = 8000

	dateLayout = "2006-01-02"
)

// DefaultPreferences is used when no preference tag was selected.
var DefaultPreferences = []string{"culture", "food"}

// ApplyDefaults fills every optional field left empty.
func ApplyDefaults(req models.ItineraryRequest) models.ItineraryRequest {
	out := req
	out.Destination = strings.TrimSpace(req.Destination)
	out.Budget = orDefault(req.Budget, DefaultBudget)
	out.TravelType = orDefault(req.TravelType, DefaultTravelType)
	out.Style = orDefault(req.Style, DefaultStyle)
	out.HotelPreference = orDefault(req.HotelPreference, DefaultHotelPreference)
	out.FoodPreference = orDefault(req.FoodPreference, DefaultFoodPreference)
	if len(req.Preferences) == 0 {
		out.Preferences = append([]string{}, DefaultPreferences...)
	} else {
		out.Preferences = append([]string{}, req.Preferences...)
	}
	return out
}

// Validate checks the mandatory fields.
func Validate(req models.ItineraryRequest) error {
	var missing []string
	if strings.TrimSpace(req.Destination) == "" {
		missing = append(missing, "destination")
	}
	if strings.TrimSpace(req.StartDate) == "" {
		missing = append(missing, "startDate")
	}
	if strings.TrimSpace(req.EndDate) == "" {
		missing = append(missing, "endDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(missing, ", "), models.ErrMissingRequiredField)
	}
	return nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q: %w", s, models.ErrInvalidDateRange)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NumDays returns the inclusive number of calendar days between start and end.
func NumDays(start, end string) (int, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	if e.Before(s) {
		return 0, fmt.Errorf("end date %s precedes start date %s: %w", end, start, models.ErrInvalidDateRange)
	}
	return int(e.Sub(s).Hours()/24) + 1, nil
}

// BuildPrompt validates req and renders the generation instruction. Defaults
// must already be applied.
func BuildPrompt(req models.ItineraryRequest) (string, int, error) {
	if err := Validate(req); err != nil {
		return "", 0, err
	}
	numDays, err := NumDays(req.StartDate, req.EndDate)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert travel planner. Create a detailed %d-day itinerary for %s.\n\n", numDays, req.Destination)

	b.WriteString("Travel details:\n")
	fmt.Fprintf(&b, "- Dates: %s to %s (%d days)\n", req.StartDate, req.EndDate, numDays)
	fmt.Fprintf(&b, "- Budget: %s\n", req.Budget)
	fmt.Fprintf(&b, "- Travel type: %s\n", req.TravelType)
	fmt.Fprintf(&b, "- Style: %s\n", req.Style)
	fmt.Fprintf(&b, "- Preferences: %s\n", strings.Join(req.Preferences, ", "))
	fmt.Fprintf(&b, "- Hotel preference: %s\n", req.HotelPreference)
	fmt.Fprintf(&b, "- Food preference: %s\n\n", req.FoodPreference)

	b.WriteString("Generate a JSON response with this exact structure:\n")
	fmt.Fprintf(&b, schemaTemplate, jsonString(req.Destination))

	b.WriteString("\nImportant:\n")
	fmt.Fprintf(&b, "- Use REAL coordinates for %s\n", req.Destination)
	b.WriteString("- Include diverse activities matching preferences\n")
	b.WriteString("- Add realistic travel times between locations\n")
	b.WriteString("- Suggest actual restaurants and attractions\n")
	b.WriteString("- Return ONLY valid JSON, no markdown")

	return b.String(), numDays, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// jsonString quotes s for embedding in the schema example.
func jsonString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

const schemaTemplate = `{
  "destination": %s,
  "summary": "Brief 2-3 sentence overview of the trip",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "title": "Day theme title",
      "activities": [
        {
          "time": "09:00",
          "title": "Activity name",
          "description": "Brief description",
          "type": "travel|hotel|food|activity|explore|culture",
          "duration": "1h",
          "location": {
            "name": "Place name",
            "lat": 48.8566,
            "lng": 2.3522,
            "address": "Full address"
          },
          "distance": "2.5 km from previous",
          "travelMode": "walk|drive|transit"
        }
      ]
    }
  ],
  "places": {
    "hotels": [
      {
        "name": "Hotel name",
        "rating": 4.5,
        "reviews": 1250,
        "category": "Boutique Hotel",
        "priceRange": "$$",
        "image": "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=400",
        "location": { "lat": 48.8566, "lng": 2.3522 }
      }
    ],
    "restaurants": [...],
    "attractions": [...],
    "experiences": [...]
  },
  "trending": [
    {
      "title": "Trending place name",
      "description": "Why it's trending",
      "category": "Hidden Gem"
    }
  ]
}
`
