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

// SqliteRouteCache is a SQLite-backed cache for origin->destination route summaries.
type SqliteRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
	Now func() time.Time
}

func NewSqliteRouteCache(db *sql.DB, ttl time.Duration) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, TTL: ttl, Now: time.Now}
}

// Fetch cached routes for the given pair keys.
func (s *SqliteRouteCache) GetMany(ctx context.Context, keys []string) (_ map[string]domain.RouteInfo, err error) {
	defer obs.Time(ctx, "route.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]domain.RouteInfo{}, nil
	}

	args := make([]any, 0, len(uniq)+1)
	args = append(args, freshSince(s.now(), s.TTL))
	for _, k := range uniq {
		args = append(args, k)
	}

	q := fmt.Sprintf(`
	SELECT key, distance_meters, duration_seconds
    FROM route_cache
    WHERE updated_at >= ?
        AND key IN (%s);
	`, placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
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
func (s *SqliteRouteCache) PutMany(ctx context.Context, routes map[string]domain.RouteInfo) (err error) {
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
	INSERT OR REPLACE INTO route_cache (key, distance_meters, duration_seconds, updated_at)
    VALUES (?, ?, ?, ?)
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

func (s *SqliteRouteCache) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
