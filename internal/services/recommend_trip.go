package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"golang.org/x/sync/errgroup"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/obs"
	"shade-seat-service/internal/ports"
)

// Mean Earth radius (IUGG).
const earthRadiusKm = 6371.0088

// Selection is a suggestion the user picked for one of the trip fields.
type Selection struct {
	Name        string
	PlaceID     int64
	Coordinates domain.Coordinates
}

type TripRequest struct {
	From          string
	To            string
	FromSelection *Selection
	ToSelection   *Selection
	// Zero means "now". Only the instant matters: the hour is read in Location,
	// so any offset carried by DepartAt is replaced.
	DepartAt time.Time
	// Zone used to derive the departure hour. Nil means UTC.
	Location *time.Location
}

// RecommendTrip resolves both ends of the trip, looks up the route and
// recommends a seat side for the local departure hour.
func RecommendTrip(
	ctx context.Context,
	req TripRequest,
	geocoder ports.Geocoder,
	router ports.RouteProvider,
	now time.Time,
) (_ *domain.TripRecommendation, err error) {
	defer obs.Time(ctx, "trip.Recommend")(&err)

	fromText := strings.TrimSpace(req.From)
	toText := strings.TrimSpace(req.To)
	if fromText == "" || toText == "" {
		return nil, fmt.Errorf("recommend trip: %w", domain.ErrEmptyLocation)
	}

	var from, to domain.Place
	var fromErr, toErr error

	// A transport failure on one side cancels the other lookup.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		from, fromErr = resolve(gctx, FieldFrom, fromText, req.FromSelection, geocoder)
		return hardFailure(fromErr)
	})
	g.Go(func() error {
		to, toErr = resolve(gctx, FieldTo, toText, req.ToSelection, geocoder)
		return hardFailure(toErr)
	})
	_ = g.Wait()

	// Report "from" first so the message does not depend on goroutine timing,
	// unless its only failure was being cancelled by the other side.
	if fromErr != nil && !cancelledBySibling(ctx, fromErr, toErr) {
		return nil, fromErr
	}
	if toErr != nil && !cancelledBySibling(ctx, toErr, fromErr) {
		return nil, toErr
	}
	if fromErr != nil {
		return nil, fromErr
	}

	if strings.EqualFold(fromText, toText) {
		return nil, fmt.Errorf("recommend trip: %w", domain.ErrSameLocation)
	}

	route, err := router.Route(ctx, from.Coordinates, to.Coordinates)
	if err != nil {
		return nil, &LookupError{Field: FieldRoute, Err: err}
	}

	depart := req.DepartAt
	if depart.IsZero() {
		depart = now
	}
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	depart = depart.In(loc)

	bearing := domain.ComputeBearing(from.Coordinates, to.Coordinates)
	hour := depart.Hour()

	return &domain.TripRecommendation{
		From:           from,
		To:             to,
		Route:          route,
		BearingDegrees: bearing,
		Heading:        domain.ClassifyHeading(bearing),
		TimeOfDay:      domain.ClassifyTimeOfDay(hour),
		LocalHour:      hour,
		DepartAt:       depart,
		ArriveAt:       depart.Add(route.Duration()),
		GreatCircleKm:  GreatCircleKm(from.Coordinates, to.Coordinates),
		Recommendation: domain.RecommendSeat(bearing, hour),
	}, nil
}

// Reuse the picked suggestion when the field still shows its name, otherwise geocode the text.
func resolve(
	ctx context.Context,
	field string,
	text string,
	sel *Selection,
	geocoder ports.Geocoder,
) (domain.Place, error) {
	if sel != nil && strings.TrimSpace(sel.Name) == text {
		if err := sel.Coordinates.Validate(); err != nil {
			return domain.Place{}, &LookupError{Field: field, Query: text, Err: err}
		}
		return domain.Place{PlaceID: sel.PlaceID, Name: text, Coordinates: sel.Coordinates}, nil
	}

	p, err := geocoder.Geocode(ctx, text)
	if err != nil {
		return domain.Place{}, &LookupError{Field: field, Query: text, Err: err}
	}
	return p, nil
}

// hardFailure returns err when it should abort the sibling lookup.
// Answers about the input itself do not.
func hardFailure(err error) error {
	if err == nil || errors.Is(err, domain.ErrPlaceNotFound) || errors.Is(err, domain.ErrInvalidCoordinates) {
		return nil
	}
	return err
}

func cancelledBySibling(parent context.Context, err, sibling error) bool {
	return sibling != nil && parent.Err() == nil && errors.Is(err, context.Canceled)
}

// GreatCircleKm returns the straight-line distance between two points over the Earth's surface.
func GreatCircleKm(a, b domain.Coordinates) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * earthRadiusKm
}

// RoundKm rounds a distance to one decimal place for display.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
