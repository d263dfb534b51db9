package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shade-seat-service/internal/adapters/geocode"
	"shade-seat-service/internal/adapters/routing"
	"shade-seat-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mangaluru = domain.Place{PlaceID: 1, Name: "Mangaluru", Coordinates: domain.Coordinates{Lat: 12.9141, Lon: 74.8560}}
	bengaluru = domain.Place{PlaceID: 2, Name: "Bengaluru", Coordinates: domain.Coordinates{Lat: 12.9716, Lon: 77.5946}}
	udupi     = domain.Place{PlaceID: 3, Name: "Udupi", Coordinates: domain.Coordinates{Lat: 13.3409, Lon: 74.7421}}
)

func newFixtures() (*geocode.MockGeocoder, *routing.MockRouteProvider) {
	g := geocode.NewMockGeocoder(mangaluru, bengaluru, udupi)
	r := routing.NewMockRouteProvider([]routing.MockPair{
		{From: mangaluru.Coordinates, To: bengaluru.Coordinates, Meters: 352_400, Seconds: 6.5 * 3600},
		{From: mangaluru.Coordinates, To: udupi.Coordinates, Meters: 58_000, Seconds: 3600},
		{From: udupi.Coordinates, To: mangaluru.Coordinates, Meters: 58_000, Seconds: 3600},
	})
	return g, r
}

func mustIST(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestRecommendTripEastboundMorning(t *testing.T) {
	g, r := newFixtures()
	ist := mustIST(t)
	depart := time.Date(2026, 4, 10, 9, 30, 0, 0, ist)

	trip, err := RecommendTrip(context.Background(), TripRequest{
		From: " Mangaluru ", To: "Bengaluru", DepartAt: depart, Location: ist,
	}, g, r, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, mangaluru, trip.From)
	assert.Equal(t, bengaluru, trip.To)
	assert.Equal(t, domain.East, trip.Heading)
	assert.Equal(t, domain.Morning, trip.TimeOfDay)
	assert.Equal(t, 9, trip.LocalHour)
	assert.Equal(t, domain.SideEither, trip.Recommendation.Side)
	assert.Equal(t, depart.Add(6*time.Hour+30*time.Minute), trip.ArriveAt)
	assert.InDelta(t, 352.4, trip.Route.DistanceKm(), 1e-9)
	assert.InDelta(t, 297, trip.GreatCircleKm, 5)
}

func TestRecommendTripUsesLocalHour(t *testing.T) {
	g, r := newFixtures()
	ist := mustIST(t)

	// 07:00 UTC is 12:30 in India: afternoon, northbound -> Right.
	now := time.Date(2026, 4, 10, 7, 0, 0, 0, time.UTC)
	trip, err := RecommendTrip(context.Background(), TripRequest{
		From: "Mangaluru", To: "Udupi", Location: ist,
	}, g, r, now)
	require.NoError(t, err)

	assert.Equal(t, 12, trip.LocalHour)
	assert.Equal(t, domain.North, trip.Heading)
	assert.Equal(t, domain.SideRight, trip.Recommendation.Side)
	assert.Equal(t, ist, trip.DepartAt.Location())
}

func TestRecommendTripReusesMatchingSelection(t *testing.T) {
	g, r := newFixtures()
	sel := &Selection{Name: "Mangaluru", PlaceID: 99, Coordinates: mangaluru.Coordinates}

	trip, err := RecommendTrip(context.Background(), TripRequest{
		From: "Mangaluru", To: "Udupi", FromSelection: sel,
	}, g, r, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(99), trip.From.PlaceID)
	assert.Equal(t, 0, g.Calls("Mangaluru"))
	assert.Equal(t, 1, g.Calls("Udupi"))
}

func TestRecommendTripGeocodesEditedText(t *testing.T) {
	g, r := newFixtures()
	// The field was edited after picking a suggestion.
	stale := &Selection{Name: "Udupi", Coordinates: udupi.Coordinates}

	trip, err := RecommendTrip(context.Background(), TripRequest{
		From: "Mangaluru", To: "Udupi", FromSelection: stale,
	}, g, r, time.Now())
	require.NoError(t, err)

	assert.Equal(t, mangaluru.Coordinates, trip.From.Coordinates)
	assert.Equal(t, 1, g.Calls("Mangaluru"))
}

func TestRecommendTripErrors(t *testing.T) {
	g, r := newFixtures()
	g.Fail["bengaluru"] = errors.New("connection reset")

	tests := []struct {
		name    string
		req     TripRequest
		wantErr error
		field   string
		message string
	}{
		{
			name:    "empty from",
			req:     TripRequest{From: "  ", To: "Udupi"},
			wantErr: domain.ErrEmptyLocation,
			message: "Please enter both a 'From' and a 'To' location.",
		},
		{
			name:    "unknown destination",
			req:     TripRequest{From: "Mangaluru", To: "Atlantis"},
			wantErr: domain.ErrPlaceNotFound,
			field:   FieldTo,
			message: `Could not find location: "Atlantis". Please select from suggestions.`,
		},
		{
			name:    "both unknown reports from first",
			req:     TripRequest{From: "Lemuria", To: "Atlantis"},
			wantErr: domain.ErrPlaceNotFound,
			field:   FieldFrom,
			message: `Could not find location: "Lemuria". Please select from suggestions.`,
		},
		{
			name:    "same location",
			req:     TripRequest{From: "Udupi", To: "udupi"},
			wantErr: domain.ErrSameLocation,
			message: "Your 'From' and 'To' locations cannot be the same.",
		},
		{
			name:    "no route",
			req:     TripRequest{From: "Udupi", To: "Bengaluru", ToSelection: &Selection{Name: "Bengaluru", Coordinates: bengaluru.Coordinates}},
			wantErr: domain.ErrNoRoute,
			field:   FieldRoute,
			message: "Could not calculate the travel route. Please try different locations.",
		},
		{
			name:  "transport failure",
			req:   TripRequest{From: "Mangaluru", To: "Bengaluru"},
			field: FieldTo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecommendTrip(context.Background(), tt.req, g, r, time.Now())
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.field != "" {
				var le *LookupError
				require.ErrorAs(t, err, &le)
				assert.Equal(t, tt.field, le.Field)
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, UserMessage(err))
			}
		})
	}
}

// stallingGeocoder waits for cancellation on one query and delegates the rest.
type stallingGeocoder struct {
	*geocode.MockGeocoder
	stall     string
	cancelled chan struct{}
}

func (g *stallingGeocoder) Geocode(ctx context.Context, query string) (domain.Place, error) {
	if query != g.stall {
		return g.MockGeocoder.Geocode(ctx, query)
	}
	select {
	case <-ctx.Done():
		close(g.cancelled)
		return domain.Place{}, ctx.Err()
	case <-time.After(5 * time.Second):
		return domain.Place{}, errors.New("lookup was not cancelled")
	}
}

func TestRecommendTripTransportFailureCancelsOtherSide(t *testing.T) {
	mock, r := newFixtures()
	mock.Fail["bengaluru"] = errors.New("connection reset")
	g := &stallingGeocoder{MockGeocoder: mock, stall: "Mangaluru", cancelled: make(chan struct{})}

	start := time.Now()
	_, err := RecommendTrip(context.Background(), TripRequest{From: "Mangaluru", To: "Bengaluru"}, g, r, time.Now())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, FieldTo, le.Field)
	assert.EqualError(t, le.Err, "connection reset")

	select {
	case <-g.cancelled:
	default:
		t.Fatal("from lookup was not cancelled")
	}
}

func TestRecommendTripNotFoundDoesNotCancelOtherSide(t *testing.T) {
	mock, r := newFixtures()
	g := &stallingGeocoder{MockGeocoder: mock, stall: "Mangaluru", cancelled: make(chan struct{})}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// "Atlantis" is not found; the stalled side keeps running until the caller's deadline.
	_, err := RecommendTrip(ctx, TripRequest{From: "Mangaluru", To: "Atlantis"}, g, r, time.Now())
	require.Error(t, err)

	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, FieldFrom, le.Field)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecommendTripRejectsInvalidSelection(t *testing.T) {
	g, r := newFixtures()
	sel := &Selection{Name: "Nowhere", Coordinates: domain.Coordinates{Lat: 123, Lon: 0}}

	_, err := RecommendTrip(context.Background(), TripRequest{
		From: "Nowhere", To: "Udupi", FromSelection: sel,
	}, g, r, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestGreatCircleKm(t *testing.T) {
	assert.Zero(t, GreatCircleKm(mangaluru.Coordinates, mangaluru.Coordinates))
	// One degree of latitude is about 111.2 km.
	km := GreatCircleKm(domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 0})
	assert.InDelta(t, 111.2, km, 0.1)
	assert.Equal(t, 352.4, RoundKm(352.4449))
}
