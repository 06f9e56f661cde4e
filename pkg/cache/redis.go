// Package cache wraps Redis behind the narrow read-through interface the scheduler
// facade uses to avoid recomputing identical-window generations.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leaguepairings/scheduler/pkg/config"
)

// NewRedis returns a configured Redis client, or nil if the cache is disabled.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// GenerationCache is the read-through cache the scheduler facade consults before
// running a generation and populates after. A nil *redis.Client (cache disabled, or
// unreachable at startup) degrades to always-miss rather than failing requests — the
// cache is an optimization, not part of the generation's correctness.
type GenerationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGenerationCache wraps client with the given entry TTL. client may be nil.
func NewGenerationCache(client *redis.Client, ttl time.Duration) *GenerationCache {
	return &GenerationCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key, or ("", false) on a miss or disabled cache.
func (g *GenerationCache) Get(ctx context.Context, key string) (string, bool) {
	if g == nil || g.client == nil {
		return "", false
	}
	val, err := g.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores payload under key with the configured TTL. Errors are swallowed: a
// failed cache write must never fail the generation it is caching.
func (g *GenerationCache) Set(ctx context.Context, key, payload string) {
	if g == nil || g.client == nil {
		return
	}
	_ = g.client.Set(ctx, key, payload, g.ttl).Err()
}
