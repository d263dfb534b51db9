package routing

import (
	"context"
	"fmt"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedRouteProvider decorates a RouteProvider with a persistent route cache.
// Keys round coordinates to 5 decimals (about 1 m) so repeated lookups of
// the same selected places share an entry.
type CachedRouteProvider struct {
	next    ports.RouteProvider
	cache   ports.RouteCache
	metrics *metrics.Metrics
	group   singleflight.Group
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.RouteCache, m *metrics.Metrics) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache, metrics: m}
}

// CacheKey returns the "origin|destination" key for a pair of coordinates.
func CacheKey(origin, destination domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", origin.Lat, origin.Lon, destination.Lat, destination.Lon)
}

func (c *CachedRouteProvider) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (domain.RouteInfo, error) {
	key := CacheKey(origin, destination)

	if c.cache != nil {
		hits, err := c.cache.GetMany(ctx, []string{key})
		if err != nil {
			zap.L().Warn("route cache read failed", zap.String("key", key), zap.Error(err))
		} else if r, ok := hits[key]; ok {
			c.metrics.CacheHit("route", 1)
			return r, nil
		}
		c.metrics.CacheMiss("route", 1)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		lookupCtx := context.WithoutCancel(ctx)

		r, err := c.next.Route(lookupCtx, origin, destination)
		if err != nil {
			return domain.RouteInfo{}, err
		}

		if c.cache != nil {
			if err := c.cache.PutMany(lookupCtx, map[string]domain.RouteInfo{key: r}); err != nil {
				zap.L().Warn("route cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return r, nil
	})

	select {
	case <-ctx.Done():
		return domain.RouteInfo{}, fmt.Errorf("route %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.RouteInfo{}, res.Err
		}
		return res.Val.(domain.RouteInfo), nil
	}
}
