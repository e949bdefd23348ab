package health

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/pos-toko/internal/store"
)

// ErrCacheDisabled marks a terminal running without a shared cache.
var ErrCacheDisabled = errors.New("cache disabled")

// Probes implements Checker over the local store and the optional cache.
type Probes struct {
	Store *store.Store
	Redis *redis.Client
}

// PingStore probes the SQLite database.
func (p Probes) PingStore(ctx context.Context, timeout time.Duration) error {
	if p.Store == nil {
		return errors.New("store unavailable")
	}
	return p.Store.Ping(ctx, timeout)
}

// PingCache probes Redis when configured.
func (p Probes) PingCache(ctx context.Context, timeout time.Duration) error {
	if p.Redis == nil {
		return ErrCacheDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Redis.Ping(ctx).Err()
}
