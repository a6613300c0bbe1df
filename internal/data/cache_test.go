package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheExpiry(t *testing.T) {
	c := NewCache[string](time.Minute)
	defer c.Close()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.evictExpired()
	assert.Equal(t, 0, c.Len())
}

func TestNilCacheIsDisabled(t *testing.T) {
	c := NewCache[int](0)
	assert.Nil(t, c)

	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Clear()
	c.Close()
}

func TestCacheKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, CacheKey("INFY.NS", "120"), CacheKey("INFY.NS", "120"))
	assert.NotEqual(t, CacheKey("INFY.NS", "120"), CacheKey("INFY.NS1", "20"))
	assert.Len(t, CacheKey("x"), 64)
}
