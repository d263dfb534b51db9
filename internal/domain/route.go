package domain

import "time"

// RouteInfo is the opaque result of a routing query between two coordinates.
type RouteInfo struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Duration converts DurationSeconds to a time.Duration.
func (r RouteInfo) Duration() time.Duration {
	return time.Duration(r.DurationSeconds * float64(time.Second))
}

// DistanceKm returns the road distance in kilometres.
func (r RouteInfo) DistanceKm() float64 {
	return r.DistanceMeters / 1000
}
