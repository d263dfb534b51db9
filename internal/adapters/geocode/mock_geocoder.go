package geocode

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"shade-seat-service/internal/domain"
)

// MockGeocoder answers from a fixed table keyed by CacheKey(query).
// Unknown names yield domain.ErrPlaceNotFound; queries in Fail yield the
// stored error from both Geocode and Suggest.
type MockGeocoder struct {
	mu     sync.Mutex
	places map[string]domain.Place
	Fail   map[string]error
	calls  map[string]int
}

func NewMockGeocoder(places ...domain.Place) *MockGeocoder {
	m := &MockGeocoder{
		places: make(map[string]domain.Place, len(places)),
		Fail:   map[string]error{},
		calls:  map[string]int{},
	}
	for _, p := range places {
		m.places[CacheKey(p.Name)] = p
	}
	return m
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) (domain.Place, error) {
	key := CacheKey(query)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[key]++

	if err, ok := m.Fail[key]; ok {
		return domain.Place{}, err
	}
	p, ok := m.places[key]
	if !ok {
		return domain.Place{}, fmt.Errorf("geocode %q: %w", query, domain.ErrPlaceNotFound)
	}
	return p, nil
}

func (m *MockGeocoder) Suggest(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	key := CacheKey(query)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["suggest:"+key]++

	if err, ok := m.Fail[key]; ok {
		return nil, err
	}
	out := []domain.Place{}
	for k, p := range m.places {
		if strings.HasPrefix(k, key) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Calls returns how many times query was geocoded.
func (m *MockGeocoder) Calls(query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[CacheKey(query)]
}

// SuggestCalls returns how many times query was sent to Suggest.
func (m *MockGeocoder) SuggestCalls(query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls["suggest:"+CacheKey(query)]
}
