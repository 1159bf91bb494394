// Package cache stores computed dashboard payloads between requests.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/admin-concierge/config"
	"github.com/admin-concierge/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store caches JSON-encodable values by key
type Store interface {
	// Get decodes the cached value into dest. It reports false on a miss or
	// an expired entry.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	// Invalidate drops every entry.
	Invalidate(ctx context.Context) error
}

// New builds the store selected by cfg.Driver
func New(cfg config.CacheConfig, db *gorm.DB, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "database":
		return NewDBStore(db, cfg.TTL), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("Redis not reachable at startup, dashboard cache will retry per request", zap.Error(err))
		}
		return NewRedisStore(client, cfg.RedisPrefix, cfg.TTL), nil
	case "none", "":
		return NopStore{}, nil
	}
	return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
}

// Fetch returns the cached value for key or computes and stores it. Cache
// failures are logged and never fail the request.
func Fetch[T any](ctx context.Context, store Store, log *zap.Logger, key string, compute func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := store.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}
	if err := store.Set(ctx, key, value); err != nil {
		log.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// NopStore never caches anything
type NopStore struct{}

func (NopStore) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NopStore) Set(context.Context, string, interface{}) error         { return nil }
func (NopStore) Invalidate(context.Context) error                       { return nil }
