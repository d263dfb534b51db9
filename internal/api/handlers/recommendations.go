package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"shade-seat-service/internal/api/dto"
	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/ports"
	"shade-seat-service/internal/services"
)

type RecommendationHandler struct {
	Geocoder ports.Geocoder
	Router   ports.RouteProvider
	Location *time.Location
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// Create resolves the trip and returns the recommended seat side.
func (h *RecommendationHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := &dto.RecommendationRequest{}
	if err := render.Bind(r, req); err != nil {
		writeError(w, r, ErrInvalidRequest(err))
		return
	}
	if errResp := validateStruct(req); errResp != nil {
		writeError(w, r, errResp)
		return
	}

	svcReq := services.TripRequest{
		From:     req.From,
		To:       req.To,
		Location: h.Location,
	}
	if req.FromCoords != nil {
		svcReq.FromSelection = &services.Selection{
			Name:        req.FromSelectedName,
			PlaceID:     req.FromPlaceID,
			Coordinates: req.FromCoords.Domain(),
		}
	}
	if req.ToCoords != nil {
		svcReq.ToSelection = &services.Selection{
			Name:        req.ToSelectedName,
			PlaceID:     req.ToPlaceID,
			Coordinates: req.ToCoords.Domain(),
		}
	}
	if req.DepartAt != nil {
		svcReq.DepartAt = *req.DepartAt
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	trip, err := services.RecommendTrip(r.Context(), svcReq, h.Geocoder, h.Router, now())
	if err != nil {
		writeError(w, r, ErrLookup(err))
		return
	}

	h.Metrics.Recommendation(string(trip.Recommendation.Side), string(trip.TimeOfDay))
	writeJSON(w, r, http.StatusOK, newRecommendationResponse(trip))
}

func newRecommendationResponse(t *domain.TripRecommendation) dto.RecommendationResponse {
	return dto.RecommendationResponse{
		From:            dto.NewPlaceResponse(t.From),
		To:              dto.NewPlaceResponse(t.To),
		Side:            t.Recommendation.Side,
		Explanation:     t.Recommendation.Explanation,
		BearingDegrees:  t.BearingDegrees,
		Heading:         t.Heading,
		TimeOfDay:       t.TimeOfDay,
		LocalHour:       t.LocalHour,
		DepartAt:        t.DepartAt,
		ArriveAt:        t.ArriveAt,
		DistanceKm:      services.RoundKm(t.Route.DistanceKm()),
		DurationSeconds: t.Route.DurationSeconds,
		DurationText:    formatDuration(t.Route.Duration()),
		GreatCircleKm:   services.RoundKm(t.GreatCircleKm),
		Recommendation:  t.Recommendation,
	}
}

// formatDuration renders a travel time as "2 h 05 min" or "45 min".
func formatDuration(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	return fmt.Sprintf("%d h %02d min", mins/60, mins%60)
}
