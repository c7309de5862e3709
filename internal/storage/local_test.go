package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Health(ctx))

	require.NoError(t, s.Save(ctx, "banner.png", strings.NewReader("png"), 3, "image/png"))

	ok, err := s.Exists(ctx, "banner.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "banner.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(ctx, "banner.png"))
	_, err = s.Get(ctx, "banner.png")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, "banner.png"), ErrNotFound))
}

func TestLocalRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../etc/passwd", "/abs.png", "a/b.png", "a b.png"} {
		assert.Error(t, s.Save(ctx, id, strings.NewReader("x"), 1, ""), id)
		_, err := s.Exists(ctx, id)
		assert.Error(t, err, id)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	assert.True(t, IsValidIdentifier("event-1b2c_cover.webp"))
	assert.False(t, IsValidIdentifier("..png"))
	assert.False(t, IsValidIdentifier("photo?.png"))
}
