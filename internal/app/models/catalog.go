package models

type Flight struct {
	ID        int      `json:"id"`
	Airline   string   `json:"airline"`
	Logo      string   `json:"logo"`
	Departure string   `json:"departure"`
	Arrival   string   `json:"arrival"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Duration  string   `json:"duration"`
	Stops     string   `json:"stops"`
	Price     int      `json:"price"`
	Amenities []string `json:"amenities"`
}

type Hotel struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Image     string   `json:"image"`
	Rating    float64  `json:"rating"`
	Reviews   int      `json:"reviews"`
	Price     int      `json:"price"`
	Amenities []string `json:"amenities"`
}
