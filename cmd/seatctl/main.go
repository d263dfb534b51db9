// Command seatctl answers "which side should I sit on?" from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"shade-seat-service/internal/app"
	"shade-seat-service/internal/config"
	"shade-seat-service/internal/platform/logging"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	// Adapter logs are noise on a terminal; keep warnings and up.
	if logger, err := logging.New("production", "seatctl"); err == nil {
		zap.ReplaceGlobals(logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel)))
	}

	root := newRootCmd(cliDeps{
		open: openLive,
		now:  time.Now,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openLive(ctx context.Context) (*tripBackend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a, err := app.Open(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	return &tripBackend{
		geocoder: a.Lookup,
		router:   a.Router,
		location: cfg.Location,
		close:    a.Close,
	}, nil
}
