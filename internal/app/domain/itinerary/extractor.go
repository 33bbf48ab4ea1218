package itinerary

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

// outermostObject matches from the first '{' to the last '}'.
var outermostObject = regexp.MustCompile(`(?s)\{.*\}`)

// Extractor turns raw model output into an Itinerary.
type Extractor struct {
	// Strict requires the whole trimmed response (minus a markdown fence) to be the JSON object.
	Strict bool
}

// Extract parses raw and validates the required top-level fields.
func (e Extractor) Extract(raw string) (*models.Itinerary, error) {
	candidate := raw
	if e.Strict {
		candidate = stripCodeFence(raw)
	} else if m := outermostObject.FindString(raw); m != "" {
		candidate = m
	}

	var head struct {
		Destination *string         `json:"destination"`
		Days        json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal([]byte(candidate), &head); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedItineraryResponse, err)
	}
	if head.Destination == nil || strings.TrimSpace(*head.Destination) == "" {
		return nil, fmt.Errorf("%w: missing destination", models.ErrMalformedItineraryResponse)
	}
	if len(head.Days) == 0 || string(head.Days) == "null" {
		return nil, fmt.Errorf("%w: missing days", models.ErrMalformedItineraryResponse)
	}

	var it models.Itinerary
	if err := json.Unmarshal([]byte(candidate), &it); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedItineraryResponse, err)
	}
	return &it, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
