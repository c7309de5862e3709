package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T) *Memory {
	t.Helper()
	m, err := NewMemory(MemoryConfig{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	_, err := m.Get(ctx, "missing")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	ok, err := m.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Delete(ctx, "k"))
	ok, _ = m.Exists(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, "memory", m.Name())
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(Options{Type: "memcached"})
	assert.Error(t, err)

	p, err := New(Options{Type: "memory", MaxCostMB: 1})
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, "memory", p.Name())
}

func TestListingInvalidate(t *testing.T) {
	ctx := context.Background()
	l := NewListing(newMemory(t), "events", time.Minute)

	_, err := l.Get(ctx, "page=1")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, l.Set(ctx, "page=1", []byte("old")))
	body, err := l.Get(ctx, "page=1")
	require.NoError(t, err)
	assert.Equal(t, "old", string(body))

	require.NoError(t, l.Invalidate(ctx))
	_, err = l.Get(ctx, "page=1")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, l.Set(ctx, "page=1", []byte("new")))
	body, err = l.Get(ctx, "page=1")
	require.NoError(t, err)
	assert.Equal(t, "new", string(body))
}

func TestMemorySetReportsDroppedWrite(t *testing.T) {
	m, err := NewMemory(MemoryConfig{NumCounters: 100, MaxCost: 1 << 10, BufferItems: 64})
	require.NoError(t, err)
	require.NoError(t, m.Close())

	err = m.Set(context.Background(), "k", []byte("v"), time.Minute)
	assert.ErrorIs(t, err, ErrDropped)
}

func TestListingIgnoresEntriesOfLostGeneration(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	l := NewListing(m, "events", time.Minute)

	require.NoError(t, l.Set(ctx, "page=1", []byte("old")))
	body, err := l.Get(ctx, "page=1")
	require.NoError(t, err)
	assert.Equal(t, "old", string(body))

	// an evicted generation key must not fall back to a guessable one
	require.NoError(t, m.Delete(ctx, "gen:events"))
	_, err = l.Get(ctx, "page=1")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, l.Set(ctx, "page=1", []byte("new")))
	body, err = l.Get(ctx, "page=1")
	require.NoError(t, err)
	assert.Equal(t, "new", string(body))
}
