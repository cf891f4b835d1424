package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreMarkOncePerKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	fresh, err := store.Mark(ctx, "viewed:s1:p1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.Mark(ctx, "viewed:s1:p1")
	require.NoError(t, err)
	assert.False(t, fresh)

	// A different key is independent.
	fresh, err = store.Mark(ctx, "viewed:s2:p1")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestMemoryStoreUnmarkAllowsRetry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	fresh, err := store.Mark(ctx, "viewed:s1:p1")
	require.NoError(t, err)
	require.True(t, fresh)

	require.NoError(t, store.Unmark(ctx, "viewed:s1:p1"))

	fresh, err = store.Mark(ctx, "viewed:s1:p1")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10 * time.Millisecond)

	fresh, err := store.Mark(ctx, "viewed:s1:p1")
	require.NoError(t, err)
	require.True(t, fresh)

	time.Sleep(20 * time.Millisecond)

	fresh, err = store.Mark(ctx, "viewed:s1:p1")
	require.NoError(t, err)
	assert.True(t, fresh, "an expired marker should be settable again")
}

func TestViewedKey(t *testing.T) {
	assert.Equal(t, "viewed:abc:123", ViewedKey("abc", "123"))
}
