package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shade-seat-service/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		CacheTTL:     time.Hour,
		NominatimURL: "http://127.0.0.1:1",
		UserAgent:    "shade-test/1.0",
		OSRMURL:      "http://127.0.0.1:1",
		OSRMProfile:  "driving",
		HTTPTimeout:  time.Second,
	}
}

func TestOpenWithoutCache(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = config.CacheNone

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Lookup)
	assert.NotNil(t, a.Router)
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = config.CacheSQLite
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "cache.db")

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, a.Close())
	assert.FileExists(t, cfg.DBPath)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.CacheBackend = config.CacheRedis
	cfg.RedisAddr = mr.Addr()

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = "memcached"

	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenRequiresUserAgent(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = config.CacheNone
	cfg.UserAgent = ""

	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenWithORSProviders(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = config.CacheNone
	cfg.Geocoder = config.ProviderORS
	cfg.Router = config.ProviderORS
	cfg.ORSAPIKey = "key"
	cfg.CountryCodes = "in,np"

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Lookup)
	assert.Equal(t, "in", firstCountry(cfg.CountryCodes))
}

func TestOpenSeedsGeocodeCache(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "places.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[{"name":"Udupi","lat":13.3409,"lon":74.7421}]`), 0o644))

	cfg := baseConfig()
	cfg.CacheBackend = config.CacheSQLite
	cfg.DBPath = filepath.Join(dir, "cache.db")
	cfg.SeedPath = seed

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	// The upstream URL is unreachable, so a hit proves the seed was used.
	p, err := a.Lookup.Geocode(context.Background(), "udupi")
	require.NoError(t, err)
	assert.Equal(t, "Udupi", p.Name)
}
