package dto

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"shade-seat-service/internal/domain"
)

// RecommendationRequest mirrors the trip form: free text plus the
// suggestion the user picked for each field, if any.
type RecommendationRequest struct {
	From             string       `json:"from" validate:"required,max=200"`
	To               string       `json:"to" validate:"required,max=200"`
	FromSelectedName string       `json:"from_selected_name,omitempty" validate:"max=200"`
	FromCoords       *Coordinates `json:"from_coords,omitempty" validate:"omitempty"`
	FromPlaceID      int64        `json:"from_place_id,omitempty"`
	ToSelectedName   string       `json:"to_selected_name,omitempty" validate:"max=200"`
	ToCoords         *Coordinates `json:"to_coords,omitempty" validate:"omitempty"`
	ToPlaceID        int64        `json:"to_place_id,omitempty"`
	// DepartAt is an absolute instant; the seat hour is taken in the server's
	// configured TIMEZONE, whatever offset the client sent.
	DepartAt *time.Time `json:"depart_at,omitempty"`
}

func (req *RecommendationRequest) Bind(r *http.Request) error {
	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	if req.FromSelectedName != "" && req.FromCoords == nil {
		return errors.New("from_coords is required with from_selected_name")
	}
	if req.ToSelectedName != "" && req.ToCoords == nil {
		return errors.New("to_coords is required with to_selected_name")
	}
	return nil
}

type RecommendationResponse struct {
	From            PlaceResponse         `json:"from"`
	To              PlaceResponse         `json:"to"`
	Side            domain.Side           `json:"side"`
	Explanation     string                `json:"explanation"`
	BearingDegrees  float64               `json:"bearing_degrees"`
	Heading         domain.Heading        `json:"heading"`
	TimeOfDay       domain.TimeOfDay      `json:"time_of_day"`
	LocalHour       int                   `json:"local_hour"`
	DepartAt        time.Time             `json:"depart_at"`
	ArriveAt        time.Time             `json:"arrive_at"`
	DistanceKm      float64               `json:"distance_km"`
	DurationSeconds float64               `json:"duration_seconds"`
	DurationText    string                `json:"duration_text"`
	GreatCircleKm   float64               `json:"great_circle_km"`
	Recommendation  domain.Recommendation `json:"recommendation"`
}
