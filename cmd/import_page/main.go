package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/config"
	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/models"
	"pagebuilder_app_echo/internal/pagedata"
	"pagebuilder_app_echo/internal/routing"
	"pagebuilder_app_echo/internal/services"
)

func main() {
	file := flag.String("file", "", "Path to a JSON page descriptor (mandatory)")
	path := flag.String("path", "", "Lookup path to store the page under (optional, defaults to the descriptor's path)")
	unpublished := flag.Bool("unpublished", false, "Store the page without publishing it")
	purgeAll := flag.Bool("purge-all", false, "Drop every cached page instead of just this one")

	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: import_page -file <descriptor.json> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Load()
	if err := logging.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	if cfg.DatabaseURL == "" {
		logging.Fatal("DATABASE_URL is not set")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logging.Fatal("Failed to read descriptor", zap.String("file", *file), zap.Error(err))
	}

	var desc models.PageDescriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		logging.Fatal("Invalid descriptor JSON", zap.Error(err))
	}
	if *path != "" {
		desc.Path = *path
	}
	// Store under the same key the catch-all route looks pages up by
	desc.Path = routing.ResolveLookupPath(routing.SegmentsFromPath(desc.Path))
	if _, ok := desc.FirstEntry(); !ok {
		logging.Warn("Descriptor has no entry components, it will render as not found", zap.String("path", desc.Path))
	}

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("Failed to connect DB", zap.Error(err))
	}
	if err := services.AutoMigrate(db); err != nil {
		logging.Fatal("Failed to run database migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	record, err := pagedata.NewGormFetcher(db).Upsert(ctx, &desc, !*unpublished)
	if err != nil {
		logging.Fatal("Failed to store page", zap.Error(err))
	}

	if cfg.RedisURL != "" {
		purgeCache(ctx, cfg.RedisURL, record.Path, *purgeAll)
	}

	fmt.Printf("Successfully stored page ID: %d\n", record.ID)
	fmt.Printf("Path: %s\nTitle: %s\nPublished: %t\n", record.Path, record.Title, record.Published)
}

func purgeCache(ctx context.Context, redisURL, path string, all bool) {
	cache, err := services.NewRedisCache(redisURL)
	if err != nil {
		logging.Warn("Redis unavailable, cached copy not purged", zap.Error(err))
		return
	}
	defer cache.Close()

	if all {
		n, err := cache.DeletePrefix(ctx, pagedata.CacheKey(""))
		if err != nil {
			logging.Warn("Failed to purge page cache", zap.Error(err))
			return
		}
		logging.Info("Page cache purged", zap.Int("keys", n))
		return
	}
	if err := cache.Delete(ctx, pagedata.CacheKey(path)); err != nil {
		logging.Warn("Failed to purge cached page", zap.String("path", path), zap.Error(err))
	}
}
