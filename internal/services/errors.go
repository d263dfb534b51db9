package services

import (
	"errors"
	"fmt"

	"shade-seat-service/internal/domain"
)

// Lookup fields reported by LookupError.
const (
	FieldFrom  = "from"
	FieldTo    = "to"
	FieldRoute = "route"
)

// LookupError ties a failed geocode or route lookup to the request field that caused it.
type LookupError struct {
	Field string
	Query string
	Err   error
}

func (e *LookupError) Error() string {
	if e.Field == FieldRoute {
		return fmt.Sprintf("route lookup: %v", e.Err)
	}
	return fmt.Sprintf("%s lookup %q: %v", e.Field, e.Query, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// UserMessage is the text shown to a person who submitted the trip form.
func UserMessage(err error) string {
	var le *LookupError
	switch {
	case errors.Is(err, domain.ErrSameLocation):
		return "Your 'From' and 'To' locations cannot be the same."
	case errors.Is(err, domain.ErrEmptyLocation):
		return "Please enter both a 'From' and a 'To' location."
	case errors.As(err, &le) && le.Field == FieldRoute:
		return "Could not calculate the travel route. Please try different locations."
	case errors.As(err, &le):
		return fmt.Sprintf("Could not find location: %q. Please select from suggestions.", le.Query)
	default:
		return "Something went wrong. Please try again."
	}
}
