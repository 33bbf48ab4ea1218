package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType is the kind of a scheduled activity.
type ActivityType string

const (
	ActivityTravel   ActivityType = "travel"
	ActivityHotel    ActivityType = "hotel"
	ActivityFood     ActivityType = "food"
	ActivityActivity ActivityType = "activity"
	ActivityExplore  ActivityType = "explore"
	ActivityCulture  ActivityType = "culture"

	// DefaultActivityType is used for any value the model invents.
	DefaultActivityType = ActivityActivity
)

var activityTypes = map[ActivityType]struct{}{
	ActivityTravel:   {},
	ActivityHotel:    {},
	ActivityFood:     {},
	ActivityActivity: {},
	ActivityExplore:  {},
	ActivityCulture:  {},
}

// Valid reports whether t is one of the six known kinds.
func (t ActivityType) Valid() bool {
	_, ok := activityTypes[t]
	return ok
}

type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Activity struct {
	Time        string       `json:"time"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        ActivityType `json:"type"`
	Duration    string       `json:"duration"`
	Location    Location     `json:"location"`
	Distance    string       `json:"distance,omitempty"`
	TravelMode  string       `json:"travelMode,omitempty"`
}

// Kind returns the activity type, degrading unknown values to DefaultActivityType.
func (a Activity) Kind() ActivityType {
	if a.Type.Valid() {
		return a.Type
	}
	return DefaultActivityType
}

type ItineraryDay struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

type Place struct {
	Name       string      `json:"name"`
	Rating     float64     `json:"rating"`
	Reviews    int         `json:"reviews"`
	Category   string      `json:"category"`
	PriceRange string      `json:"priceRange,omitempty"`
	Image      string      `json:"image"`
	Location   Coordinates `json:"location"`
	Distance   string      `json:"distance,omitempty"`
}

type Places struct {
	Hotels      []Place `json:"hotels"`
	Restaurants []Place `json:"restaurants"`
	Attractions []Place `json:"attractions"`
	Experiences []Place `json:"experiences"`
}

type TrendingItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Itinerary is the generated day-by-day plan.
type Itinerary struct {
	Destination string         `json:"destination"`
	Summary     string         `json:"summary"`
	Days        []ItineraryDay `json:"days"`
	Places      Places         `json:"places"`
	Trending    []TrendingItem `json:"trending"`
}

// WithDefaults returns a copy whose nested sequences are never nil.
func (it Itinerary) WithDefaults() Itinerary {
	out := it
	out.Days = make([]ItineraryDay, len(it.Days))
	copy(out.Days, it.Days)
	for i := range out.Days {
		out.Days[i].Activities = nonNil(out.Days[i].Activities)
	}
	out.Places.Hotels = nonNil(it.Places.Hotels)
	out.Places.Restaurants = nonNil(it.Places.Restaurants)
	out.Places.Attractions = nonNil(it.Places.Attractions)
	out.Places.Experiences = nonNil(it.Places.Experiences)
	out.Trending = nonNil(it.Trending)
	return out
}

// ActivityCount returns the number of activities across all days.
func (it Itinerary) ActivityCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Activities)
	}
	return n
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ItineraryRequest is the snapshot sent to POST /generate-itinerary.
type ItineraryRequest struct {
	Destination     string   `json:"destination"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Budget          string   `json:"budget"`
	TravelType      string   `json:"travelType"`
	Style           string   `json:"style"`
	Preferences     []string `json:"preferences"`
	HotelPreference string   `json:"hotelPreference"`
	FoodPreference  string   `json:"foodPreference"`
}

// SavedItinerary is a persisted generation result.
type SavedItinerary struct {
	ID          uuid.UUID        `json:"id"`
	Destination string           `json:"destination"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	NumDays     int              `json:"numDays"`
	Request     ItineraryRequest `json:"request"`
	Itinerary   Itinerary        `json:"itinerary"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ListItinerariesParams filters saved itineraries.
type ListItinerariesParams struct {
	Destination string
	Limit       uint64
}
