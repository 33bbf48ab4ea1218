package wizard

import "github.com/FACorreiaa/go-ziptrip/internal/app/models"

const (
	StepDestination = iota
	StepDates
	StepBudget
	StepTravelType
	StepStyle
	StepPreferences
	StepHotels
	StepPlaces
	StepFood
	StepGenerate
)

var steps = []models.WizardStepInfo{
	{ID: "destination", Title: "Destination"},
	{ID: "dates", Title: "Dates"},
	{ID: "budget", Title: "Budget"},
	{ID: "travelType", Title: "Travel Type"},
	{ID: "style", Title: "Style"},
	{ID: "preferences", Title: "Preferences"},
	{ID: "hotels", Title: "Hotels"},
	{ID: "places", Title: "Places"},
	{ID: "food", Title: "Food"},
	{ID: "generate", Title: "Generate"},
}

// StepCount is the number of wizard steps; the last one triggers generation.
var StepCount = len(steps)

// StepID returns the identifier of step i, or "" when out of range.
func StepID(i int) string {
	if i < 0 || i >= len(steps) {
		return ""
	}
	return steps[i].ID
}

// Options returns the option catalog rendered by the wizard.
func Options() models.WizardOptions {
	return models.WizardOptions{
		Steps: append([]models.WizardStepInfo{}, steps...),
		TrendingDestinations: []models.TrendingDestination{
			{Code: "FR", City: "Paris", Country: "France", Emoji: "🇫🇷"},
			{Code: "JP", City: "Tokyo", Country: "Japan", Emoji: "🇯🇵"},
			{Code: "ID", City: "Bali", Country: "Indonesia", Emoji: "🇮🇩"},
			{Code: "ES", City: "Barcelona", Country: "Spain", Emoji: "🇪🇸"},
			{Code: "US", City: "New York", Country: "USA", Emoji: "🇺🇸"},
			{Code: "GR", City: "Santorini", Country: "Greece", Emoji: "🇬🇷"},
			{Code: "AE", City: "Dubai", Country: "UAE", Emoji: "🇦🇪"},
			{Code: "IT", City: "Rome", Country: "Italy", Emoji: "🇮🇹"},
		},
		Budget: []models.WizardOption{
			{ID: "budget", Label: "Budget", Description: "Affordable stays & local eats", Icon: "💰"},
			{ID: "moderate", Label: "Moderate", Description: "Balanced comfort & value", Icon: "💎"},
			{ID: "luxury", Label: "Luxury", Description: "Premium experiences", Icon: "👑"},
		},
		TravelTypes: []models.WizardOption{
			{ID: "solo", Label: "Solo", Icon: "🎒"},
			{ID: "couple", Label: "Couple", Icon: "💑"},
			{ID: "family", Label: "Family", Icon: "👨‍👩‍👧‍👦"},
			{ID: "friends", Label: "Friends", Icon: "👥"},
			{ID: "business", Label: "Business", Icon: "💼"},
		},
		Styles: []models.WizardOption{
			{ID: "relaxed", Label: "Relaxed", Description: "Leisure & relaxation"},
			{ID: "balanced", Label: "Balanced", Description: "Mix of activities"},
			{ID: "packed", Label: "Packed", Description: "Maximum experiences"},
		},
		Preferences: []models.WizardOption{
			{ID: "culture", Label: "Culture & History", Icon: "🏛️"},
			{ID: "adventure", Label: "Adventure", Icon: "🏔️"},
			{ID: "nature", Label: "Nature", Icon: "🌿"},
			{ID: "nightlife", Label: "Nightlife", Icon: "🎉"},
			{ID: "shopping", Label: "Shopping", Icon: "🛍️"},
			{ID: "photography", Label: "Photography", Icon: "📸"},
			{ID: "wellness", Label: "Wellness & Spa", Icon: "🧘"},
			{ID: "local", Label: "Local Experiences", Icon: "🏘️"},
		},
		Hotels: []models.WizardOption{
			{ID: "hostel", Label: "Hostels", Icon: "🛏️"},
			{ID: "boutique", Label: "Boutique Hotels", Icon: "🏨"},
			{ID: "resort", Label: "Resorts", Icon: "🏖️"},
			{ID: "airbnb", Label: "Vacation Rentals", Icon: "🏠"},
			{ID: "luxury", Label: "Luxury Hotels", Icon: "✨"},
		},
		Places: []models.WizardOption{
			{ID: "popular", Label: "Popular Spots", Icon: "⭐"},
			{ID: "hidden", Label: "Hidden Gems", Icon: "💎"},
			{ID: "museums", Label: "Museums", Icon: "🏛️"},
			{ID: "outdoor", Label: "Outdoor Activities", Icon: "🌲"},
			{ID: "beaches", Label: "Beaches", Icon: "🏖️"},
			{ID: "markets", Label: "Local Markets", Icon: "🛒"},
		},
		Food: []models.WizardOption{
			{ID: "local", Label: "Local Cuisine", Icon: "🍜"},
			{ID: "street", Label: "Street Food", Icon: "🌮"},
			{ID: "fine", Label: "Fine Dining", Icon: "🍽️"},
			{ID: "cafes", Label: "Cafés & Bakeries", Icon: "☕"},
			{ID: "vegetarian", Label: "Vegetarian", Icon: "🥗"},
			{ID: "seafood", Label: "Seafood", Icon: "🦐"},
		},
	}
}
