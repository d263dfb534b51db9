package domain

import "errors"

var (
	// ErrPlaceNotFound is returned when a geocoder answered but had no match.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrNoRoute is returned when a router answered but found no route.
	ErrNoRoute = errors.New("no route found")
	// ErrSameLocation is returned when origin and destination name the same place.
	ErrSameLocation = errors.New("origin and destination are the same")
	// ErrEmptyLocation is returned when a location name is blank.
	ErrEmptyLocation      = errors.New("location must not be empty")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
