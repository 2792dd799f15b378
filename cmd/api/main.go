package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	v1 "go-parley/cmd/api/router/v1"
	"go-parley/internal/auth"
	"go-parley/internal/config"
	cacheAdapter "go-parley/internal/infrastructure/cache/adapter"
	"go-parley/internal/infrastructure/database"
	queueAdapter "go-parley/internal/infrastructure/queue/adapter"
	"go-parley/internal/infrastructure/realtime"
	chatHTTP "go-parley/internal/pkg/chat/presentation/http"
	listingAdapter "go-parley/internal/pkg/listing/adapter"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	cache, err := cacheAdapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer cache.Close()

	queueClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to create queue client", "err", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	registry := realtime.NewRegistry()
	defer registry.Close()
	broadcaster := realtime.NewEventBroadcaster(registry, logger)

	listings := listingAdapter.NewCachedDirectory(
		listingAdapter.NewPgListingDirectory(pool),
		cache,
		time.Duration(cfg.ListingCacheTTLSeconds)*time.Second,
	)

	jwt := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		hctx, hcancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer hcancel()
		if err := pool.Ping(hctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, jwt, chatHTTP.Deps{
		Pool:           pool,
		Cache:          cache,
		Queue:          queueClient,
		Registry:       registry,
		Broadcaster:    broadcaster,
		Listings:       listings,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
