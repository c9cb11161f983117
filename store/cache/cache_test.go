package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "a", 1)

	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	require.Equal(t, 1, got)

	_, ok = c.Get(ctx, "missing")
	require.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	defer c.Close()

	ctx := context.Background()
	c.SetWithTTL(ctx, "a", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "a")
	require.False(t, ok)
}

func TestCacheMaxItems(t *testing.T) {
	evicted := []string{}
	c := New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
		MaxItems:        2,
		OnEviction:      func(key string) { evicted = append(evicted, key) },
	})
	defer c.Close()

	ctx := context.Background()
	c.SetWithTTL(ctx, "a", 1, time.Second)
	c.SetWithTTL(ctx, "b", 2, time.Minute)
	c.Set(ctx, "c", 3)

	require.Len(t, evicted, 1)
	require.Equal(t, "a", evicted[0])

	_, ok := c.Get(ctx, "c")
	require.True(t, ok)
}

func TestCacheDelete(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "a", 1)
	c.Delete(ctx, "a")

	_, ok := c.Get(ctx, "a")
	require.False(t, ok)
}
