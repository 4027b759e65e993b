package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/config"
	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/pagedata"
	"pagebuilder_app_echo/internal/services"
	"pagebuilder_app_echo/internal/tasks"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	if cfg.RedisURL == "" {
		logging.Fatal("REDIS_URL not set, nothing to warm")
	}

	var source pagedata.Fetcher = pagedata.NewHTTPFetcher(cfg.CMSBaseURL, cfg.CMSAPIKey)
	if cfg.PageSource == "database" {
		db, err := services.InitDB(cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("Failed to connect to database", zap.Error(err))
		}
		source = pagedata.NewGormFetcher(db)
	}

	cache, err := services.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logging.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	schedule, err := tasks.ParseSchedule(cfg.WarmSchedule, time.Now())
	if err != nil {
		logging.Fatal("Invalid WARM_SCHEDULE", zap.Error(err))
	}

	task := tasks.NewWarmTask(
		pagedata.NewCachedFetcher(source, cache, cfg.PageCacheTTL),
		cfg.WarmPaths,
		cfg.WarmConcurrent,
	)

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logging.Info("Shutting down worker...")
		cancel()
	}()

	logging.Info("Worker started",
		zap.Strings("paths", cfg.WarmPaths),
		zap.String("schedule", cfg.WarmSchedule))
	tasks.RunOnSchedule(ctx, schedule, task)
}
