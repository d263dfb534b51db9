package ports

import (
	"context"
	"shade-seat-service/internal/domain"
)

// Port: persistent cache of geocoding answers keyed by normalized query.
type GeocodeCache interface {
	// Return cached places for the given keys; missing keys are absent from the map.
	GetMany(ctx context.Context, keys []string) (map[string]domain.Place, error)
	PutMany(ctx context.Context, places map[string]domain.Place) error
}

// Port: persistent cache of routing answers keyed by "origin|destination".
type RouteCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]domain.RouteInfo, error)
	PutMany(ctx context.Context, routes map[string]domain.RouteInfo) error
}
