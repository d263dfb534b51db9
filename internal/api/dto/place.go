package dto

import "shade-seat-service/internal/domain"

// Coordinates uses pointers so that a missing field is told apart from 0.
type Coordinates struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

func (c Coordinates) Domain() domain.Coordinates {
	var out domain.Coordinates
	if c.Lat != nil {
		out.Lat = *c.Lat
	}
	if c.Lon != nil {
		out.Lon = *c.Lon
	}
	return out
}

type PlaceResponse struct {
	PlaceID int64   `json:"place_id,omitempty"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewPlaceResponse(p domain.Place) PlaceResponse {
	return PlaceResponse{
		PlaceID: p.PlaceID,
		Name:    p.Name,
		Lat:     p.Coordinates.Lat,
		Lon:     p.Coordinates.Lon,
	}
}

func NewPlaceResponses(places []domain.Place) []PlaceResponse {
	out := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		out = append(out, NewPlaceResponse(p))
	}
	return out
}
