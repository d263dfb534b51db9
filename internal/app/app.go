// Package app assembles the lookup adapters and caches selected by configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shade-seat-service/internal/adapters/cache"
	"shade-seat-service/internal/adapters/geocode"
	"shade-seat-service/internal/adapters/ors"
	"shade-seat-service/internal/adapters/routing"
	"shade-seat-service/internal/config"
	"shade-seat-service/internal/platform/db"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/ports"
)

// App holds the adapters shared by the server and the CLI.
type App struct {
	Lookup ports.PlaceLookup
	Router ports.RouteProvider

	closers []func() error
}

// Open builds the configured geocoder and router behind the configured cache backend.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*App, error) {
	a := &App{}

	geoCache, routeCache, err := a.openCaches(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if geoCache != nil && cfg.SeedPath != "" {
		n, err := cache.SeedGeocodeFromJSON(ctx, geoCache, cfg.SeedPath)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		zap.L().Info("seeded geocode cache", zap.String("path", cfg.SeedPath), zap.Int("entries", n))
	}

	lookup, router, err := newProviders(cfg, m)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open app: %w", err)
	}

	a.Lookup = geocode.NewCachedGeocoder(lookup, geoCache, m)
	a.Router = routing.NewCachedRouteProvider(router, routeCache, m)
	return a, nil
}

// newProviders builds the upstream geocoder and router named by GEOCODER and ROUTER.
func newProviders(cfg *config.Config, m *metrics.Metrics) (ports.PlaceLookup, ports.RouteProvider, error) {
	var orsClient *ors.Client
	if cfg.Geocoder == config.ProviderORS || cfg.Router == config.ProviderORS {
		c, err := ors.New(ors.Options{
			APIKey:    cfg.ORSAPIKey,
			BaseURL:   cfg.ORSURL,
			Profile:   cfg.ORSProfile,
			Country:   firstCountry(cfg.CountryCodes),
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.HTTPTimeout,
			Metrics:   m,
		})
		if err != nil {
			return nil, nil, err
		}
		orsClient = c
	}

	var lookup ports.PlaceLookup
	if cfg.Geocoder == config.ProviderORS {
		lookup = orsClient
	} else {
		n, err := geocode.NewNominatimGeocoder(geocode.NominatimOptions{
			BaseURL:      cfg.NominatimURL,
			CountryCodes: cfg.CountryCodes,
			Language:     cfg.Language,
			UserAgent:    cfg.UserAgent,
			Timeout:      cfg.HTTPTimeout,
			Metrics:      m,
		})
		if err != nil {
			return nil, nil, err
		}
		lookup = n
	}

	var router ports.RouteProvider
	if cfg.Router == config.ProviderORS {
		router = orsClient
	} else {
		o, err := routing.NewOSRMRouteProvider(routing.OSRMOptions{
			BaseURL:   cfg.OSRMURL,
			Profile:   cfg.OSRMProfile,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.HTTPTimeout,
			Metrics:   m,
		})
		if err != nil {
			return nil, nil, err
		}
		router = o
	}

	return lookup, router, nil
}

// ORS accepts a single boundary.country.
func firstCountry(codes string) string {
	first, _, _ := strings.Cut(codes, ",")
	return strings.TrimSpace(first)
}

// openCaches returns nil interfaces for CACHE_BACKEND=none.
func (a *App) openCaches(ctx context.Context, cfg *config.Config) (ports.GeocodeCache, ports.RouteCache, error) {
	switch cfg.CacheBackend {
	case config.CacheNone:
		return nil, nil, nil

	case config.CacheSQLite:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, conn.Close)
		if err := cache.InitSchema(ctx, conn, cache.DialectSQLite); err != nil {
			return nil, nil, err
		}
		return cache.NewSqliteGeocodeCache(conn, cfg.CacheTTL), cache.NewSqliteRouteCache(conn, cfg.CacheTTL), nil

	case config.CachePostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, conn.Close)
		// Normally created by cmd/dbtool; InitSchema is idempotent.
		if err := cache.InitSchema(ctx, conn, cache.DialectPostgres); err != nil {
			return nil, nil, err
		}
		return cache.NewSQLGeocodeCache(conn, cfg.CacheTTL), cache.NewSQLRouteCache(conn, cfg.CacheTTL), nil

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("open redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisGeocodeCache(client, cfg.CacheTTL), cache.NewRedisRouteCache(client, cfg.CacheTTL), nil
	}

	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

// Close releases the cache connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
