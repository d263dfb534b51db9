package domain

// Place is a geocoding result: a display name resolved to coordinates.
type Place struct {
	PlaceID     int64       `json:"place_id,omitempty"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}
