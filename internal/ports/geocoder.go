package ports

import (
	"context"
	"shade-seat-service/internal/domain"
)

// Contract for resolving free-text place names to coordinates.
type Geocoder interface {
	// Return the best match for query, or domain.ErrPlaceNotFound when the
	// service answered with no results.
	Geocode(ctx context.Context, query string) (domain.Place, error)
}

// Optional extension of Geocoder used for autocomplete.
type Suggester interface {
	// Return up to limit candidate places for a partial query.
	// An empty slice (not an error) means no candidates.
	Suggest(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

// Geocoder with autocomplete support.
type PlaceLookup interface {
	Geocoder
	Suggester
}
