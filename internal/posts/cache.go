package posts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"quill/internal/config"
)

const listCacheKey = "posts:list"

// Cache is an optional Redis-backed cache for the post list. A nil *Cache
// is valid and disables caching, so callers never need to branch.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache builds a cache from configuration. It returns nil when no Redis
// address is configured.
func NewCache(cfg *config.Config) *Cache {
	if cfg == nil || cfg.Cache.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

// GetList returns the cached post list, or ok=false on miss or any cache
// failure. Cache failures never propagate.
func (c *Cache) GetList(ctx context.Context) ([]*Post, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var items []*Post
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// SetList stores the post list with the configured TTL.
func (c *Cache) SetList(ctx context.Context, items []*Post) {
	if c == nil || c.client == nil {
		return
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, listCacheKey, encoded, c.ttl).Err()
}

// Invalidate drops the cached list after any write.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, listCacheKey).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
