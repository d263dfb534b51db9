package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/ports"
)

const (
	DefaultSuggestMinChars = 3
	DefaultSuggestLimit    = 5
)

type SuggestOptions struct {
	MinChars int
	Limit    int
}

// Suggest returns autocomplete candidates for a partially typed place name.
// Queries shorter than MinChars return an empty list without calling upstream.
func Suggest(
	ctx context.Context,
	query string,
	suggester ports.Suggester,
	opts SuggestOptions,
) ([]domain.Place, error) {
	minChars := opts.MinChars
	if minChars <= 0 {
		minChars = DefaultSuggestMinChars
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minChars {
		return []domain.Place{}, nil
	}

	places, err := suggester.Suggest(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", q, err)
	}
	if len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}
