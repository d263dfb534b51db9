package ors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves text with /geocode/search.
func (c *Client) Geocode(ctx context.Context, query string) (_ domain.Place, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	q := strings.Join(strings.Fields(query), " ")
	if q == "" {
		return domain.Place{}, domain.ErrEmptyLocation
	}

	places, err := c.search(ctx, "/geocode/search", q, 1)
	if err != nil {
		return domain.Place{}, fmt.Errorf("ors geocode %q: %w", q, err)
	}
	if len(places) == 0 {
		return domain.Place{}, fmt.Errorf("ors geocode %q: %w", q, domain.ErrPlaceNotFound)
	}
	return places[0], nil
}

// Suggest returns candidates from /geocode/autocomplete.
func (c *Client) Suggest(ctx context.Context, query string, limit int) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "ors.Suggest")(&err)

	q := strings.Join(strings.Fields(query), " ")
	if q == "" {
		return []domain.Place{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	places, err := c.search(ctx, "/geocode/autocomplete", q, limit)
	if err != nil {
		return nil, fmt.Errorf("ors suggest %q: %w", q, err)
	}
	return places, nil
}

func (c *Client) search(ctx context.Context, path, text string, size int) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("size", strconv.Itoa(size))
	if c.country != "" {
		params.Set("boundary.country", c.country)
	}

	var decoded geocodeResponse
	if err := c.client.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), &decoded); err != nil {
		c.metrics.UpstreamError("ors")
		return nil, err
	}

	out := make([]domain.Place, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		coords := f.Geometry.Coordinates
		if len(coords) != 2 {
			return nil, errors.New("invalid coordinate format")
		}

		label := f.Properties.Label
		if label == "" {
			label = text
		}
		out = append(out, domain.Place{
			Name:        label,
			Coordinates: domain.Coordinates{Lon: coords[0], Lat: coords[1]},
		})
	}
	return out, nil
}
