package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-parley/internal/config"
	cacheAdapter "go-parley/internal/infrastructure/cache/adapter"
	queueAdapter "go-parley/internal/infrastructure/queue/adapter"
	"go-parley/internal/pkg/chat/application/task"
)

// The worker consumes background tasks from the queue. Today that is only
// unread-counter bumps, but it runs as its own binary so task load never
// competes with request handling.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	cache, err := cacheAdapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer cache.Close()

	srv, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, logger)
	if err != nil {
		logger.Error("failed to create queue server", "err", err)
		os.Exit(1)
	}

	task.RegisterNotifyUnreadTask(srv, cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker running", "concurrency", cfg.AsynqConcurrency)
	if err := srv.Run(ctx); err != nil {
		logger.Error("queue server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
