package ports

import (
	"context"
	"shade-seat-service/internal/domain"
)

// Contract for retrieving road distance and travel duration between two coordinates.
type RouteProvider interface {
	// Return the route summary, or domain.ErrNoRoute when the service
	// answered but could not connect the points.
	Route(ctx context.Context, origin, destination domain.Coordinates) (domain.RouteInfo, error)
}
