package dto

import (
	"net/http"

	"shade-seat-service/internal/domain"
)

type BearingRequest struct {
	Origin      *Coordinates `json:"origin" validate:"required"`
	Destination *Coordinates `json:"destination" validate:"required"`
	Hour        *int         `json:"hour,omitempty" validate:"omitempty,gte=0,lte=23"`
}

func (req *BearingRequest) Bind(r *http.Request) error { return nil }

type BearingResponse struct {
	BearingDegrees float64                `json:"bearing_degrees"`
	Heading        domain.Heading         `json:"heading"`
	Axis           string                 `json:"axis"`
	Hour           *int                   `json:"hour,omitempty"`
	TimeOfDay      domain.TimeOfDay       `json:"time_of_day,omitempty"`
	Recommendation *domain.Recommendation `json:"recommendation,omitempty"`
}
