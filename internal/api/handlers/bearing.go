package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"shade-seat-service/internal/api/dto"
	"shade-seat-service/internal/domain"
)

// Bearing exposes the pure bearing and seat calculation without any lookups.
func Bearing(w http.ResponseWriter, r *http.Request) {
	req := &dto.BearingRequest{}
	if err := render.Bind(r, req); err != nil {
		writeError(w, r, ErrInvalidRequest(err))
		return
	}
	if errResp := validateStruct(req); errResp != nil {
		writeError(w, r, errResp)
		return
	}

	bearing := domain.ComputeBearing(req.Origin.Domain(), req.Destination.Domain())
	heading := domain.ClassifyHeading(bearing)

	res := dto.BearingResponse{
		BearingDegrees: bearing,
		Heading:        heading,
		Axis:           heading.Axis(),
	}
	if req.Hour != nil {
		rec := domain.RecommendSeat(bearing, *req.Hour)
		res.Hour = req.Hour
		res.TimeOfDay = domain.ClassifyTimeOfDay(*req.Hour)
		res.Recommendation = &rec
	}

	writeJSON(w, r, http.StatusOK, res)
}
