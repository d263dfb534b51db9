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

// SQLGeocodeCache is a Postgres-backed cache mapping normalized queries to places.
type SQLGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
	Now func() time.Time
}

func NewSQLGeocodeCache(db *sql.DB, ttl time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, TTL: ttl, Now: time.Now}
}

// Fetch cached places for the given query keys.
func (s *SQLGeocodeCache) GetMany(ctx context.Context, keys []string) (_ map[string]domain.Place, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]domain.Place{}, nil
	}

	q := `
	SELECT key, place_id, name, lat, lon
    FROM geocode_cache
    WHERE key = ANY($1::text[])
        AND updated_at >= $2;
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq, freshSince(s.now(), s.TTL))
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Place, len(uniq))
	for rows.Next() {
		var key string
		var p domain.Place
		if err := rows.Scan(&key, &p.PlaceID, &p.Name, &p.Coordinates.Lat, &p.Coordinates.Lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// Store query -> place mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, places map[string]domain.Place) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(places) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (key, place_id, name, lat, lon, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (key) DO UPDATE
	SET place_id = EXCLUDED.place_id,
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		updated_at = EXCLUDED.updated_at;
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().Unix()
	for key, p := range places {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("insert geocode cache: empty query key")
		}

		if _, err := stmt.ExecContext(ctx, key, p.PlaceID, p.Name, p.Coordinates.Lat, p.Coordinates.Lon, now); err != nil {
			return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}

func (s *SQLGeocodeCache) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
