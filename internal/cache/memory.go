package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

type MemoryConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// Memory keeps entries in a ristretto cache; cost is the payload size.
type Memory struct {
	client *ristretto.Cache
}

func NewMemory(config MemoryConfig) (*Memory, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{client: client}, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	if !m.client.SetWithTTL(key, value, cost, expiration) {
		return fmt.Errorf("%w: %s", ErrDropped, key)
	}
	// make the write visible to the next Get
	m.client.Wait()
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := m.client.Get(key)
	if !found {
		return nil, ErrCacheMiss
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.client.Del(key)
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	_, found := m.client.Get(key)
	return found, nil
}

func (m *Memory) Close() error {
	m.client.Close()
	return nil
}

func (m *Memory) Name() string { return "memory" }
