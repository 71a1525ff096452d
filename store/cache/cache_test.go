package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)

	value, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	ctx := context.Background()

	c.SetWithTTL(ctx, "a", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestCacheDelete(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Delete(ctx, "a")

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestCacheEvictsWhenFull(t *testing.T) {
	c := New(Config{MaxItems: 3})
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		c.Set(ctx, fmt.Sprintf("key-%d", i), i)
	}

	c.mu.RLock()
	size := len(c.items)
	c.mu.RUnlock()
	assert.LessOrEqual(t, size, 3)

	// The most recent insert survives eviction.
	_, ok := c.Get(ctx, "key-4")
	assert.True(t, ok)
}
