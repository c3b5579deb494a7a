package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductKeyPrefix = "catalog:products:v:"
	VersionKey       = "catalog:products:version"

	DefaultTTL = 10 * time.Minute
)

// ProductCache caches anonymous catalog reads. Writes bump a version counter
// so every cached entry becomes unreachable at once. A nil *ProductCache or
// one without a client always misses.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductCache{redis: client, ttl: ttl}
}

func (pc *ProductCache) enabled() bool {
	return pc != nil && pc.redis != nil
}

// Get decodes the entry stored under key into dest and reports a hit.
// Redis failures are logged and treated as misses.
func (pc *ProductCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !pc.enabled() {
		return false
	}
	version, err := pc.version(ctx)
	if err != nil {
		zap.L().Warn("product cache unavailable", zap.Error(err))
		return false
	}

	raw, err := pc.redis.Get(ctx, cacheKey(version, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("product cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		zap.L().Warn("failed to unmarshal cached products", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key for the current version.
func (pc *ProductCache) Set(ctx context.Context, key string, value interface{}) {
	if !pc.enabled() {
		return
	}
	version, err := pc.version(ctx)
	if err != nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("failed to marshal products for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := pc.redis.Set(ctx, cacheKey(version, key), payload, pc.ttl).Err(); err != nil {
		zap.L().Warn("failed to cache products", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached entry by bumping the version.
func (pc *ProductCache) Invalidate(ctx context.Context) {
	if !pc.enabled() {
		return
	}
	v, err := pc.redis.Incr(ctx, VersionKey).Result()
	if err != nil {
		zap.L().Error("failed to invalidate product cache", zap.Error(err))
		return
	}
	zap.L().Debug("product cache invalidated", zap.Int64("version", v))
}

func (pc *ProductCache) version(ctx context.Context) (int64, error) {
	v, err := pc.redis.Get(ctx, VersionKey).Int64()
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("read cache version: %w", err)
	}
	// SetNX so a concurrent Invalidate is not overwritten.
	if err := pc.redis.SetNX(ctx, VersionKey, 1, 0).Err(); err != nil {
		return 0, fmt.Errorf("init cache version: %w", err)
	}
	return pc.redis.Get(ctx, VersionKey).Int64()
}

func cacheKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", ProductKeyPrefix, version, key)
}
