// Package cache stores rendered API responses in memory (ristretto) or in
// redis, behind one Provider interface.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider is implemented by every cache backend.
type Provider interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Get returns ErrCacheMiss for unknown or expired keys.
	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	Close() error

	Name() string
}

var ErrCacheMiss = errors.New("cache miss")

// ErrDropped is returned when the in-memory cache refuses or drops a write.
var ErrDropped = errors.New("cache write dropped")

func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

type Options struct {
	Type          string
	MaxCostMB     int64
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New builds the provider named by opts.Type ("memory" or "redis").
func New(opts Options) (Provider, error) {
	switch opts.Type {
	case "", "memory":
		maxCost := opts.MaxCostMB << 20
		if maxCost <= 0 {
			maxCost = 64 << 20
		}
		return NewMemory(MemoryConfig{
			NumCounters: 100000,
			MaxCost:     maxCost,
			BufferItems: 64,
		})
	case "redis":
		return NewRedis(RedisConfig{
			Address:  opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unsupported cache provider type: %s", opts.Type)
	}
}
