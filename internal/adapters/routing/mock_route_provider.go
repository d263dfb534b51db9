package routing

import (
	"context"
	"fmt"
	"sync"

	"shade-seat-service/internal/domain"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
}

// MockRouteProvider answers from a fixed table of coordinate pairs.
// Unknown pairs yield domain.ErrNoRoute.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[string]domain.RouteInfo
	Err   error
	calls int
}

func NewMockRouteProvider(pairs []MockPair) *MockRouteProvider {
	m := make(map[string]domain.RouteInfo, len(pairs))
	for _, p := range pairs {
		m[CacheKey(p.From, p.To)] = domain.RouteInfo{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Route(ctx context.Context, origin, destination domain.Coordinates) (domain.RouteInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if p.Err != nil {
		return domain.RouteInfo{}, p.Err
	}
	r, ok := p.m[CacheKey(origin, destination)]
	if !ok {
		return domain.RouteInfo{}, fmt.Errorf("missing pair %s -> %s: %w", origin, destination, domain.ErrNoRoute)
	}

	return r, nil
}

func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
