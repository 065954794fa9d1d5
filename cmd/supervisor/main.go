package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eleven-am/vision-nav/internal/supervisor"
	"github.com/eleven-am/vision-nav/internal/vision"
)

func main() {
	config := supervisor.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	detector := vision.NewClient(vision.Config{
		DetectorURL: config.DetectorURL,
		Model:       config.DetectorModel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := supervisor.New(config, detector, logger)
	if err := s.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("supervisor exited", "error", err)
		os.Exit(1)
	}
}
