package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Create the geocode_cache and route_cache tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var real string
	switch dialect {
	case DialectSQLite:
		real = "REAL"
	case DialectPostgres:
		real = "DOUBLE PRECISION"
	default:
		return fmt.Errorf("init schema: unknown dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        key TEXT PRIMARY KEY,
        place_id BIGINT NOT NULL DEFAULT 0,
        name TEXT NOT NULL,
        lat %[1]s NOT NULL,
        lon %[1]s NOT NULL,
        updated_at BIGINT NOT NULL
    );
	`, real)

	createRouteCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS route_cache (
        key TEXT PRIMARY KEY,
        distance_meters %[1]s NOT NULL,
        duration_seconds %[1]s NOT NULL,
        updated_at BIGINT NOT NULL
    );
	`, real)

	statements := []string{
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		`CREATE INDEX IF NOT EXISTS idx_geocode_cache_updated_at ON geocode_cache(updated_at);`,
		`CREATE INDEX IF NOT EXISTS idx_route_cache_updated_at ON route_cache(updated_at);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PurgeExpired deletes cache rows last written before now-ttl and returns how many were removed.
func PurgeExpired(ctx context.Context, db *sql.DB, dialect Dialect, now time.Time, ttl time.Duration) (int64, error) {
	if db == nil {
		return 0, errors.New("purge cache: DB is nil")
	}
	if ttl <= 0 {
		return 0, nil
	}

	ph := "?"
	if dialect == DialectPostgres {
		ph = "$1"
	}
	cutoff := freshSince(now, ttl)

	var total int64
	for _, table := range []string{"geocode_cache", "route_cache"} {
		res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE updated_at < %s", table, ph), cutoff)
		if err != nil {
			return total, fmt.Errorf("purge cache: delete from %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("purge cache: rows affected %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}
