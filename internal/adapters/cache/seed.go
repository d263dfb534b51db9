package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"shade-seat-service/internal/adapters/geocode"
	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/ports"
)

type PlaceSeed struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
}

// SeedGeocodeFromJSON pre-populates the geocode cache with known places from a
// JSON array, so common stops resolve without calling the geocoder.
// Each place is stored under its name and every alias.
func SeedGeocodeFromJSON(ctx context.Context, c ports.GeocodeCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed places: parse json: %w", err)
	}

	rows := make(map[string]domain.Place, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return 0, fmt.Errorf("seed places: item at index %d: name cannot be empty", i+1)
		}

		p := domain.Place{Name: name, Coordinates: domain.Coordinates{Lat: item.Lat, Lon: item.Lon}}
		if err := p.Coordinates.Validate(); err != nil {
			return 0, fmt.Errorf("seed places: item %q: %w", name, err)
		}

		for _, key := range append([]string{name}, item.Aliases...) {
			if k := geocode.CacheKey(key); k != "" {
				rows[k] = p
			}
		}
	}

	if err := c.PutMany(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed places: %w", err)
	}
	return len(rows), nil
}
