package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/obs"
)

const redisKeyPrefix = "shadeseat:"

// redisStore keeps JSON-encoded values under a key prefix with a shared TTL.
type redisStore[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func (s redisStore[T]) getMany(ctx context.Context, keys []string) (map[string]T, error) {
	if s.client == nil {
		return nil, errors.New("redis client is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]T{}, nil
	}

	full := make([]string, len(uniq))
	for i, k := range uniq {
		full[i] = s.prefix + k
	}

	vals, err := s.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}

	out := make(map[string]T, len(uniq))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // missing key
		}

		var t T
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			// A corrupt entry is treated as a miss and overwritten on the next put.
			zap.L().Warn("redis cache: decode entry", zap.String("key", full[i]), zap.Error(err))
			continue
		}
		out[uniq[i]] = t
	}
	return out, nil
}

func (s redisStore[T]) putMany(ctx context.Context, values map[string]T) error {
	if s.client == nil {
		return errors.New("redis client is nil")
	}

	if len(values) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for k, v := range values {
		if strings.TrimSpace(k) == "" {
			return errors.New("empty key")
		}

		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode key=%q: %w", k, err)
		}
		pipe.Set(ctx, s.prefix+k, b, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}
	return nil
}

// RedisGeocodeCache stores places in Redis with a TTL. A zero TTL keeps entries forever.
type RedisGeocodeCache struct {
	store redisStore[domain.Place]
}

func NewRedisGeocodeCache(client redis.UniversalClient, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{store: redisStore[domain.Place]{
		client: client,
		prefix: redisKeyPrefix + "geocode:",
		ttl:    ttl,
	}}
}

func (c *RedisGeocodeCache) GetMany(ctx context.Context, keys []string) (_ map[string]domain.Place, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	out, err := c.store.getMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}
	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, places map[string]domain.Place) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if err := c.store.putMany(ctx, places); err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}

// RedisRouteCache stores route summaries in Redis with a TTL.
type RedisRouteCache struct {
	store redisStore[domain.RouteInfo]
}

func NewRedisRouteCache(client redis.UniversalClient, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{store: redisStore[domain.RouteInfo]{
		client: client,
		prefix: redisKeyPrefix + "route:",
		ttl:    ttl,
	}}
}

func (c *RedisRouteCache) GetMany(ctx context.Context, keys []string) (_ map[string]domain.RouteInfo, err error) {
	defer obs.Time(ctx, "route.cache.GetMany")(&err)

	out, err := c.store.getMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get route cache: %w", err)
	}
	return out, nil
}

func (c *RedisRouteCache) PutMany(ctx context.Context, routes map[string]domain.RouteInfo) (err error) {
	defer obs.Time(ctx, "route.cache.PutMany")(&err)

	if err := c.store.putMany(ctx, routes); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}
	return nil
}
