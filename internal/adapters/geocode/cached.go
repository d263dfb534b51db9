package geocode

import (
	"context"
	"fmt"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedGeocoder decorates a PlaceLookup with a persistent geocode cache.
//
// Lookups check the cache first; concurrent misses for the same key share a
// single upstream call. Only successful answers are cached, so a place that
// is not found today is asked for again next time. Suggestions are not cached.
type CachedGeocoder struct {
	next    ports.PlaceLookup
	cache   ports.GeocodeCache
	metrics *metrics.Metrics
	group   singleflight.Group
}

func NewCachedGeocoder(next ports.PlaceLookup, cache ports.GeocodeCache, m *metrics.Metrics) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, metrics: m}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string) (domain.Place, error) {
	key := CacheKey(query)
	if key == "" {
		return domain.Place{}, domain.ErrEmptyLocation
	}

	if c.cache != nil {
		hits, err := c.cache.GetMany(ctx, []string{key})
		if err != nil {
			// A broken cache degrades to direct lookups.
			zap.L().Warn("geocode cache read failed", zap.String("key", key), zap.Error(err))
		} else if p, ok := hits[key]; ok {
			c.metrics.CacheHit("geocode", 1)
			return p, nil
		}
		c.metrics.CacheMiss("geocode", 1)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Detached from the first caller so one cancelled request does not fail its peers.
		lookupCtx := context.WithoutCancel(ctx)

		p, err := c.next.Geocode(lookupCtx, query)
		if err != nil {
			return domain.Place{}, err
		}

		if c.cache != nil {
			if err := c.cache.PutMany(lookupCtx, map[string]domain.Place{key: p}); err != nil {
				zap.L().Warn("geocode cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return p, nil
	})

	select {
	case <-ctx.Done():
		return domain.Place{}, fmt.Errorf("geocode %q: %w", query, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Place{}, res.Err
		}
		return res.Val.(domain.Place), nil
	}
}

func (c *CachedGeocoder) Suggest(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	return c.next.Suggest(ctx, query, limit)
}
