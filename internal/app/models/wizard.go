package models

// WizardData holds the trip preferences collected across the wizard steps.
type WizardData struct {
	Destination      string   `json:"destination"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Budget           string   `json:"budget"`
	TravelType       string   `json:"travelType"`
	Style            string   `json:"style"`
	Preferences      []string `json:"preferences"`
	HotelPreference  string   `json:"hotelPreference"`
	PlacesPreference []string `json:"placesPreference"`
	FoodPreference   string   `json:"foodPreference"`
}

// NewWizardData returns empty wizard data with non-nil tag sets.
func NewWizardData() WizardData {
	return WizardData{
		Preferences:      []string{},
		PlacesPreference: []string{},
	}
}

// Request snapshots the wizard into a generation request. Defaults are not applied here.
func (w WizardData) Request() ItineraryRequest {
	prefs := make([]string, len(w.Preferences))
	copy(prefs, w.Preferences)
	return ItineraryRequest{
		Destination:     w.Destination,
		StartDate:       w.StartDate,
		EndDate:         w.EndDate,
		Budget:          w.Budget,
		TravelType:      w.TravelType,
		Style:           w.Style,
		Preferences:     prefs,
		HotelPreference: w.HotelPreference,
		FoodPreference:  w.FoodPreference,
	}
}

// WizardPatch is a partial update; nil fields are left untouched.
type WizardPatch struct {
	Destination      *string   `json:"destination,omitempty"`
	StartDate        *string   `json:"startDate,omitempty"`
	EndDate          *string   `json:"endDate,omitempty"`
	Budget           *string   `json:"budget,omitempty"`
	TravelType       *string   `json:"travelType,omitempty"`
	Style            *string   `json:"style,omitempty"`
	Preferences      *[]string `json:"preferences,omitempty"`
	HotelPreference  *string   `json:"hotelPreference,omitempty"`
	PlacesPreference *[]string `json:"placesPreference,omitempty"`
	FoodPreference   *string   `json:"foodPreference,omitempty"`
}

// Apply merges the patch into w.
func (p WizardPatch) Apply(w WizardData) WizardData {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&w.Destination, p.Destination)
	set(&w.StartDate, p.StartDate)
	set(&w.EndDate, p.EndDate)
	set(&w.Budget, p.Budget)
	set(&w.TravelType, p.TravelType)
	set(&w.Style, p.Style)
	set(&w.HotelPreference, p.HotelPreference)
	set(&w.FoodPreference, p.FoodPreference)
	if p.Preferences != nil {
		w.Preferences = append([]string{}, *p.Preferences...)
	}
	if p.PlacesPreference != nil {
		w.PlacesPreference = append([]string{}, *p.PlacesPreference...)
	}
	return w
}

// WizardState is the persisted wizard store: selections, result and status.
type WizardState struct {
	Step         int        `json:"step"`
	WizardData   WizardData `json:"wizardData"`
	Itinerary    *Itinerary `json:"itinerary"`
	IsGenerating bool       `json:"isGenerating"`
	Error        *string    `json:"error"`
}

// WizardOption is one selectable choice shown on a wizard step.
type WizardOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type TrendingDestination struct {
	Code    string `json:"code"`
	City    string `json:"city"`
	Country string `json:"country"`
	Emoji   string `json:"emoji"`
}

type WizardStepInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WizardOptions is the full option catalog served to clients.
type WizardOptions struct {
	Steps                []WizardStepInfo      `json:"steps"`
	TrendingDestinations []TrendingDestination `json:"trendingDestinations"`
	Budget               []WizardOption        `json:"budget"`
	TravelTypes          []WizardOption        `json:"travelTypes"`
	Styles               []WizardOption        `json:"styles"`
	Preferences          []WizardOption        `json:"preferences"`
	Hotels               []WizardOption        `json:"hotels"`
	Places               []WizardOption        `json:"places"`
	Food                 []WizardOption        `json:"food"`
}
