package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"shade-seat-service/internal/adapters/cache"
	"shade-seat-service/internal/config"
	"shade-seat-service/internal/platform/db"
	"shade-seat-service/internal/platform/logging"
)

type options struct {
	seedPath string
	purge    bool
	// dotenvErr is reported once the logger exists.
	dotenvErr error
}

// loadOptions reads dotenvPath before parsing args so .env can supply flag defaults such as SEED_PATH.
func loadOptions(dotenvPath string, args []string) (options, error) {
	var opts options
	_, opts.dotenvErr = config.LoadDotEnv(dotenvPath)

	fs := flag.NewFlagSet("dbtool", flag.ContinueOnError)
	fs.BoolVar(&opts.purge, "purge-expired", false, "delete cache rows older than CACHE_TTL_HOURS")
	fs.StringVar(&opts.seedPath, "seed", config.Get("SEED_PATH", ""), "JSON file of known places to load into the geocode cache")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// dbtool prepares the Postgres cache schema and can purge stale entries.
func main() {
	opts, err := loadOptions(".env", os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger, err := logging.New(config.Get("APP_ENV", "development"), "shade-seat-dbtool")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if opts.dotenvErr != nil {
		logger.Warn("read .env", zap.Error(opts.dotenvErr))
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("Initializing database schema...")
	if err := cache.InitSchema(ctx, conn, cache.DialectPostgres); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("Schema ready.")

	if opts.seedPath != "" {
		logger.Info("Seeding geocode cache...", zap.String("path", opts.seedPath))
		n, err := cache.SeedGeocodeFromJSON(ctx, cache.NewSQLGeocodeCache(conn, 0), opts.seedPath)
		if err != nil {
			logger.Fatal("seeding failed", zap.Error(err))
		}
		logger.Info("Seeding complete.", zap.Int("entries", n))
	}

	if !opts.purge {
		return
	}

	ttlHours, err := config.GetInt("CACHE_TTL_HOURS", 24*30)
	if err != nil {
		logger.Fatal("read CACHE_TTL_HOURS", zap.Error(err))
	}
	n, err := cache.PurgeExpired(ctx, conn, cache.DialectPostgres, time.Now(), time.Duration(ttlHours)*time.Hour)
	if err != nil {
		logger.Fatal("purge failed", zap.Error(err))
	}
	logger.Info("Purge complete.", zap.Int64("rows", n))
}
