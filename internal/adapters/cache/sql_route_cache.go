package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/obs"
)

// SQLRouteCache is a Postgres-backed cache for origin->destination route summaries.
// Keys come from routing.CacheKey.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
	Now func() time.Time
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl, Now: time.Now}
}

// Fetch cached routes for the given pair keys.
func (s *SQLRouteCache) GetMany(ctx context.Context, keys []string) (_ map[string]domain.RouteInfo, err error) {
	defer obs.Time(ctx, "route.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]domain.RouteInfo{}, nil
	}

	q := `
	SELECT key, distance_meters, duration_seconds
    FROM route_cache
    WHERE key = ANY($1::text[])
        AND updated_at >= $2;
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq, freshSince(s.now(), s.TTL))
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.RouteInfo, len(uniq))
	for rows.Next() {
		var key string
		var r domain.RouteInfo
		if err := rows.Scan(&key, &r.DistanceMeters, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("get route cache: scan rows: %w", err)
		}
		out[key] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many route summaries.
func (s *SQLRouteCache) PutMany(ctx context.Context, routes map[string]domain.RouteInfo) (err error) {
	defer obs.Time(ctx, "route.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if len(routes) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert route cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_cache (key, distance_meters, duration_seconds, updated_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		updated_at = EXCLUDED.updated_at;
	`)
	if err != nil {
		return fmt.Errorf("insert route cache: db prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().Unix()
	for key, r := range routes {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("insert route cache: empty pair key")
		}

		if _, err := stmt.ExecContext(ctx, key, r.DistanceMeters, r.DurationSeconds, now); err != nil {
			return fmt.Errorf("insert route cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert route cache commit: %w", err)
	}

	return nil
}

func (s *SQLRouteCache) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
