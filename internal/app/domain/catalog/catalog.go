// Package catalog serves the static flight and hotel listings.
package catalog

import (
	"strings"

	"github.com/samber/lo"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

var flights = []models.Flight{
	{ID: 1, Airline: "Air France", Logo: "AF", Departure: "08:30", Arrival: "10:45", From: "JFK", To: "CDG", Duration: "7h 15m", Stops: "Direct", Price: 549, Amenities: []string{"wifi", "meals"}},
	{ID: 2, Airline: "Delta Airlines", Logo: "DL", Departure: "14:20", Arrival: "05:35", From: "JFK", To: "CDG", Duration: "7h 15m", Stops: "Direct", Price: 489, Amenities: []string{"wifi"}},
	{ID: 3, Airline: "United Airlines", Logo: "UA", Departure: "19:00", Arrival: "09:15", From: "JFK", To: "CDG", Duration: "7h 15m", Stops: "1 Stop", Price: 425, Amenities: []string{"meals"}},
}

var hotels = []models.Hotel{
	{ID: 1, Name: "Hotel Le Marais", Location: "Paris, France", Image: "/assets/travel-paris.jpg", Rating: 4.8, Reviews: 2341, Price: 289, Amenities: []string{"wifi", "parking", "restaurant", "pool"}},
	{ID: 2, Name: "Santorini Bliss Resort", Location: "Santorini, Greece", Image: "/assets/travel-santorini.jpg", Rating: 4.9, Reviews: 1823, Price: 450, Amenities: []string{"wifi", "pool", "restaurant"}},
	{ID: 3, Name: "Tokyo Grand Hotel", Location: "Tokyo, Japan", Image: "/assets/travel-tokyo.jpg", Rating: 4.7, Reviews: 3102, Price: 195, Amenities: []string{"wifi", "restaurant"}},
}

// Service looks up listings.
type Service interface {
	Flights(from, to string) []models.Flight
	Hotels(location string) []models.Hotel
}

type StaticService struct{}

func NewStaticService() *StaticService {
	return &StaticService{}
}

// Flights returns the flights whose airport codes match from and to. A query
// matches when it names the code, e.g. "New York (JFK)" matches JFK. Empty
// queries match everything.
func (StaticService) Flights(from, to string) []models.Flight {
	return lo.Filter(flights, func(f models.Flight, _ int) bool {
		return matchesAirport(from, f.From) && matchesAirport(to, f.To)
	})
}

// Hotels returns hotels whose location contains the query, case-insensitively.
func (StaticService) Hotels(location string) []models.Hotel {
	q := strings.ToLower(strings.TrimSpace(location))
	return lo.Filter(hotels, func(h models.Hotel, _ int) bool {
		return q == "" || strings.Contains(strings.ToLower(h.Location), q)
	})
}

func matchesAirport(query, code string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(query), code)
}
