package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"munch-server/config"
	"munch-server/di"
	"munch-server/logger"
)

func main() {
	config.LoadEnv()
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, config.Load())
	stop()
	if err != nil {
		logger.Component("Main").Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// run wires the container, primes the cache and serves until ctx is done.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Component("Main")

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	log.Info().Int("collections", len(cfg.RefresherCollectionID)).Msg("refreshing places")
	if err := container.PlacesRefresherService.RefreshPlacesData(ctx); err != nil {
		log.Warn().Err(err).Msg("initial places refresh failed")
	}
	container.PlacesRefresherService.StartPeriodicJob(ctx, cfg.RefresherInterval)

	if err := container.MunchHttpServer.Start(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
