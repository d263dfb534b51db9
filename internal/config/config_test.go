package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "CACHE_BACKEND", "TIMEZONE", "SUGGEST_LIMIT", "HTTP_TIMEOUT_SECONDS", "ALLOWED_ORIGINS", "GEOCODER", "ROUTER"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CacheSQLite, cfg.CacheBackend)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
	assert.Equal(t, "in", cfg.CountryCodes)
	assert.Equal(t, 350*time.Millisecond, cfg.SuggestDelay)
	assert.Equal(t, 3, cfg.SuggestMinLen)
	assert.Equal(t, 5, cfg.SuggestLimit)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, ProviderNominatim, cfg.Geocoder)
	assert.Equal(t, ProviderOSRM, cfg.Router)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SUGGEST_LIMIT", "8")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 8, cfg.SuggestLimit)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"bad backend", "CACHE_BACKEND", "mongo", "CACHE_BACKEND"},
		{"postgres without url", "CACHE_BACKEND", "postgres", "DATABASE_URL"},
		{"bad int", "CACHE_TTL_HOURS", "soon", "CACHE_TTL_HOURS"},
		{"bad timezone", "TIMEZONE", "Mars/Olympus", "TIMEZONE"},
		{"limit range", "SUGGEST_LIMIT", "0", "SUGGEST_LIMIT"},
		{"bad geocoder", "GEOCODER", "google", "GEOCODER"},
		{"ors without key", "ROUTER", "ors", "ORS_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("ORS_API_KEY", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	loaded, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHADESEAT_TEST_KEY=hello\n"), 0o600))
	t.Setenv("SHADESEAT_TEST_KEY", "")
	os.Unsetenv("SHADESEAT_TEST_KEY")

	loaded, err = LoadDotEnv(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "hello", os.Getenv("SHADESEAT_TEST_KEY"))
}

func TestGet(t *testing.T) {
	t.Setenv("SHADESEAT_GET", "  ")
	assert.Equal(t, "fb", Get("SHADESEAT_GET", "fb"))
	t.Setenv("SHADESEAT_GET", "v")
	assert.Equal(t, "v", Get("SHADESEAT_GET", "fb"))
}
