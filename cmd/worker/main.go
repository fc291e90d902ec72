package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"pms/config"
	"pms/di"
	"pms/shared/logger"
	"syscall"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	workerLog := logger.Component("booking-worker")

	if !cfg.Kafka.Enable {
		workerLog.Warn().Msg("Kafka is disabled, nothing to consume")

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		workerLog.Fatal().Err(err).Msg("Booking event worker stopped")
	}

	workerLog.Info().Msg("Booking event worker stopped")
}
