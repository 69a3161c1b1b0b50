package cache

import (
	"context"
	"time"
)

// Cache is the minimal read-through cache used for hot map queries.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LocalConfig configures the in-process cache.
type LocalConfig struct {
	DefaultExpiration time.Duration `json:"default_expiration" env:"CACHE_DEFAULT_EXPIRATION"`
	CleanupInterval   time.Duration `json:"cleanup_interval" env:"CACHE_CLEANUP_INTERVAL"`
}

func DefaultLocalConfig() LocalConfig {
	return LocalConfig{
		DefaultExpiration: 30 * time.Second,
		CleanupInterval:   time.Minute,
	}
}
