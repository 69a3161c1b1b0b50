package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoCacheSetGet(t *testing.T) {
	c := NewGoCache(DefaultLocalConfig())
	defer c.Close()

	ctx := context.Background()
	err := c.Set(ctx, "map:points", []int{1, 2, 3}, time.Minute)
	assert.NoError(t, err)

	value, found := c.Get(ctx, "map:points")
	assert.True(t, found)
	assert.Equal(t, []int{1, 2, 3}, value)
}

func TestGoCacheExpiry(t *testing.T) {
	c := NewGoCache(LocalConfig{DefaultExpiration: 10 * time.Millisecond, CleanupInterval: 10 * time.Millisecond})
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "ephemeral", "x", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, found := c.Get(ctx, "ephemeral")
	assert.False(t, found)
}

func TestGoCacheDelete(t *testing.T) {
	c := NewGoCache(DefaultLocalConfig())
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "k", "v", time.Minute)
	assert.NoError(t, c.Delete(ctx, "k"))

	_, found := c.Get(ctx, "k")
	assert.False(t, found)
}
