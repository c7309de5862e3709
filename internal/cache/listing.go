package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Listing caches rendered list responses for one resource scope. Keys carry
// a generation token; Invalidate replaces it so every older entry is skipped
// and left to expire. Without a generation key nothing is read, since an
// evicted generation cannot tell which entries are still current.
type Listing struct {
	provider Provider
	scope    string
	ttl      time.Duration
}

func NewListing(provider Provider, scope string, ttl time.Duration) *Listing {
	return &Listing{provider: provider, scope: scope, ttl: ttl}
}

func (l *Listing) genKey() string { return "gen:" + l.scope }

func (l *Listing) entryKey(gen, variant string) string {
	return l.scope + ":" + gen + ":" + variant
}

func (l *Listing) Get(ctx context.Context, variant string) ([]byte, error) {
	gen, err := l.provider.Get(ctx, l.genKey())
	if err != nil {
		return nil, err
	}
	return l.provider.Get(ctx, l.entryKey(string(gen), variant))
}

// Set starts a new generation when none is stored.
func (l *Listing) Set(ctx context.Context, variant string, body []byte) error {
	gen, err := l.provider.Get(ctx, l.genKey())
	switch {
	case IsCacheMiss(err):
		if gen, err = l.newGeneration(ctx); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	return l.provider.Set(ctx, l.entryKey(string(gen), variant), body, l.ttl)
}

// Invalidate never expires the generation key so a restart of the process
// cannot resurrect stale entries in a shared redis.
func (l *Listing) Invalidate(ctx context.Context) error {
	_, err := l.newGeneration(ctx)
	return err
}

func (l *Listing) newGeneration(ctx context.Context) ([]byte, error) {
	gen := []byte(strconv.FormatInt(time.Now().UnixNano(), 36))
	if err := l.provider.Set(ctx, l.genKey(), gen, 0); err != nil {
		return nil, fmt.Errorf("failed to store generation for %s: %w", l.scope, err)
	}
	return gen, nil
}
