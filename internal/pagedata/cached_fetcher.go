package pagedata

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/models"
)

// Store is the subset of services.RedisCache the cached fetcher needs
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedFetcher puts a read-through cache in front of another fetcher.
// Absent pages are never cached so a newly published page shows up on the next request.
type CachedFetcher struct {
	next  Fetcher
	store Store
	ttl   time.Duration
}

func NewCachedFetcher(next Fetcher, store Store, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, store: store, ttl: ttl}
}

// CacheKey is the store key a page descriptor is cached under
func CacheKey(path string) string {
	return "page:" + path
}

// Fetch implements Fetcher
func (f *CachedFetcher) Fetch(ctx context.Context, path string, opts FetchOptions) (*models.PageDescriptor, error) {
	var cached models.PageDescriptor
	err := f.store.Get(ctx, CacheKey(path), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		logging.Warn("Page cache read failed", zap.String("path", path), zap.Error(err))
	}

	return f.Refresh(ctx, path, opts)
}

// Refresh bypasses the cache, fetches the page and stores the result
func (f *CachedFetcher) Refresh(ctx context.Context, path string, opts FetchOptions) (*models.PageDescriptor, error) {
	desc, err := f.next.Fetch(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		_ = f.store.Delete(ctx, CacheKey(path))
		return nil, nil
	}

	// cache write failures only cost a refetch
	if err := f.store.Set(ctx, CacheKey(path), desc, f.ttl); err != nil {
		logging.Warn("Page cache write failed", zap.String("path", path), zap.Error(err))
	}
	return desc, nil
}
