package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"shade-seat-service/internal/api"
	"shade-seat-service/internal/app"
	"shade-seat-service/internal/config"
	"shade-seat-service/internal/platform/logging"
	"shade-seat-service/internal/platform/metrics"
	"shade-seat-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Nominatim, OSRM, caches) behind ports and starts the HTTP server.
func main() {
	loaded, dotenvErr := config.LoadDotEnv(".env")

	cfg, err := config.Load()
	if err != nil {
		// The logger depends on APP_ENV, so config errors go to a bootstrap logger.
		zap.Must(zap.NewProduction()).Fatal("load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.AppEnv, "shade-seat-server")
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("init logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	switch {
	case dotenvErr != nil:
		logger.Warn("read .env", zap.Error(dotenvErr))
	case !loaded:
		logger.Info("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a, err := app.Open(ctx, cfg, m)
	if err != nil {
		logger.Fatal("open adapters", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close adapters", zap.Error(err))
		}
	}()

	router := api.NewRouter(api.Deps{
		Lookup:   a.Lookup,
		Router:   a.Router,
		Location: cfg.Location,
		Suggest: services.SuggestOptions{
			MinChars: cfg.SuggestMinLen,
			Limit:    cfg.SuggestLimit,
		},
		SuggestDelay:   cfg.SuggestDelay,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
		Metrics:        m,
		Gatherer:       reg,
	})

	// WriteTimeout covers a cold-cache geocode of both ends plus the route lookup with retries.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			zap.String("addr", srv.Addr),
			zap.String("cache", cfg.CacheBackend),
			zap.String("timezone", cfg.Location.String()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
}
