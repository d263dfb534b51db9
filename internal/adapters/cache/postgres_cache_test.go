//go:build integration

package cache

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/platform/db"
)

// setupPostgres starts a throwaway Postgres container and returns a connection with the cache schema.
func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests are skipped in -short mode")
	}
	ctx := context.Background()

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "shadeseat",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/shadeseat?sslmode=disable", host, port.Port())

	var conn *sql.DB
	require.Eventually(t, func() bool {
		conn, err = db.Open(dsn)
		return err == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(ctx, conn, DialectPostgres))
	require.NoError(t, InitSchema(ctx, conn, DialectPostgres))
	return conn
}

func TestSQLCachesAgainstPostgres(t *testing.T) {
	conn := setupPostgres(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("geocode upsert and batch read", func(t *testing.T) {
		c := NewSQLGeocodeCache(conn, 0)
		c.Now = func() time.Time { return now }

		hampankatta := domain.Place{PlaceID: 7, Name: "Hampankatta", Coordinates: domain.Coordinates{Lat: 12.8703, Lon: 74.8430}}
		require.NoError(t, c.PutMany(ctx, map[string]domain.Place{"hampankatta": hampankatta}))

		got, err := c.GetMany(ctx, []string{"hampankatta", "hampankatta", "unknown"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, hampankatta, got["hampankatta"])

		hampankatta.Name = "Hampankatta Circle"
		require.NoError(t, c.PutMany(ctx, map[string]domain.Place{"hampankatta": hampankatta}))
		got, err = c.GetMany(ctx, []string{"hampankatta"})
		require.NoError(t, err)
		assert.Equal(t, "Hampankatta Circle", got["hampankatta"].Name)
	})

	t.Run("route entries expire after ttl", func(t *testing.T) {
		clock := now
		c := NewSQLRouteCache(conn, time.Hour)
		c.Now = func() time.Time { return clock }

		route := domain.RouteInfo{DistanceMeters: 58000, DurationSeconds: 4500}
		require.NoError(t, c.PutMany(ctx, map[string]domain.RouteInfo{"u|m": route}))

		got, err := c.GetMany(ctx, []string{"u|m"})
		require.NoError(t, err)
		assert.Equal(t, route, got["u|m"])

		clock = clock.Add(2 * time.Hour)
		got, err = c.GetMany(ctx, []string{"u|m"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("purge removes stale rows", func(t *testing.T) {
		stale := NewSQLRouteCache(conn, 0)
		stale.Now = func() time.Time { return now.Add(-72 * time.Hour) }
		require.NoError(t, stale.PutMany(ctx, map[string]domain.RouteInfo{"stale": {DistanceMeters: 1}}))

		n, err := PurgeExpired(ctx, conn, DialectPostgres, now, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := NewSQLGeocodeCache(conn, 0).GetMany(ctx, []string{"hampankatta"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
