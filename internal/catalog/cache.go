package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/pos-toko/internal/obs"
)

// Cache keeps JSON list payloads in Redis. The terminal works without it
// (nil client disables every method), so a standalone device stays fully
// offline while a multi-terminal setup can share one cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client yields a no-op cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the
// key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			obs.RecordCacheLookup("miss")
			return false, nil
		}
		obs.RecordCacheLookup("error")
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	obs.RecordCacheLookup("hit")
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

const versionKey = "catalog:version"

// ListKey builds a versioned cache key so Invalidate can expire every list
// at once by bumping the version counter.
func (c *Cache) ListKey(ctx context.Context, base string) string {
	if c == nil || c.client == nil {
		return ""
	}
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return ""
	}
	return fmt.Sprintf("catalog:v%d:%s", version, base)
}

// Invalidate bumps the version counter, orphaning all previously written
// list keys. They expire on their own TTL.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, versionKey).Err()
}
