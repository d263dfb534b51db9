package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/obs"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// Route retrieves distance and duration for one origin->destination pair
// from a single-cell OpenRouteService matrix.
func (c *Client) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.RouteInfo, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if err := origin.Validate(); err != nil {
		return domain.RouteInfo{}, fmt.Errorf("ors route origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return domain.RouteInfo{}, fmt.Errorf("ors route destination: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", c.baseURL, c.profile)

	payload, err := json.Marshal(matrixRequest{
		Locations:    [][]float64{origin.CoordsToList(), destination.CoordsToList()},
		Destinations: []int{1},
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	})
	if err != nil {
		return domain.RouteInfo{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := c.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return c.client.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		c.metrics.UpstreamError("ors")
		return domain.RouteInfo{}, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return domain.RouteInfo{}, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 ||
		len(mr.Distances[0]) != 1 || len(mr.Durations[0]) != 1 {
		return domain.RouteInfo{}, fmt.Errorf(
			"expected a 1x1 matrix; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	// A null cell means the points are not connected by the road network.
	meters, seconds := mr.Distances[0][0], mr.Durations[0][0]
	if meters == nil || seconds == nil {
		return domain.RouteInfo{}, fmt.Errorf("ors route: %w", domain.ErrNoRoute)
	}

	return domain.RouteInfo{DistanceMeters: *meters, DurationSeconds: *seconds}, nil
}
