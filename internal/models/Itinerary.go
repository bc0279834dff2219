package models

import (
	json "github.com/goccy/go-json"
)

type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

type ItineraryDay struct {
	Day        int        `json:"day"`
	Location   string     `json:"location"`
	Activities []Activity `json:"activities"`
}

type TripLocation struct {
	City          string    `json:"city"`
	Coordinates   []float64 `json:"coordinates"`
	OpenStreetMap string    `json:"openStreetMap"`
}

// Itinerary is the shape the generation prompt asks the model to return.
// Interests is kept raw: models answer with either a string or a list.
type Itinerary struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	EstimatedPrice  string          `json:"estimatedPrice"`
	Duration        int             `json:"duration"`
	Budget          string          `json:"budget"`
	TravelStyle     string          `json:"travelStyle"`
	Country         string          `json:"country"`
	Interests       json.RawMessage `json:"interests,omitempty"`
	GroupType       string          `json:"groupType"`
	BestTimeToVisit []string        `json:"bestTimeToVisit"`
	WeatherInfo     []string        `json:"weatherInfo"`
	Location        TripLocation    `json:"location"`
	Itinerary       []ItineraryDay  `json:"itinerary"`
}

// ParseItinerary decodes a stored tripDetail. Fields of an unexpected type
// make the whole decode fail; callers treat that as "no parsed detail".
func ParseItinerary(detail string) (*Itinerary, error) {
	var it Itinerary
	if err := json.Unmarshal([]byte(detail), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// TripView is a trip document with its detail decoded for display.
type TripView struct {
	*TripDocument
	Itinerary *Itinerary `json:"itinerary"`
}

func NewTripView(doc *TripDocument) *TripView {
	view := &TripView{TripDocument: doc}
	if it, err := ParseItinerary(doc.TripDetail); err == nil {
		view.Itinerary = it
	}
	return view
}
