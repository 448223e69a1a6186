package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("k1", "v1")
	got, found := c.Get("k1")
	assert.True(t, found)
	assert.Equal(t, "v1", got)

	c.Set("k1", "v2")
	got, _ = c.Get("k1")
	assert.Equal(t, "v2", got)
	assert.Equal(t, 1, c.Size())
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a, making b the eviction candidate
	c.Set("c", 3)

	_, found := c.Get("b")
	assert.False(t, found)
	_, found = c.Get("a")
	assert.True(t, found)
	_, found = c.Get("c")
	assert.True(t, found)
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)

	c.Set("a", "1")
	c.Set("b", "2")
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", "3")

	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
}

func TestDeletePrefix(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	c.Set("acc1:summary", "s")
	c.Set("acc1:monthly", "m")
	c.Set("acc2:summary", "other")

	c.DeletePrefix("acc1:")

	_, found := c.Get("acc1:summary")
	assert.False(t, found)
	_, found = c.Get("acc1:monthly")
	assert.False(t, found)
	_, found = c.Get("acc2:summary")
	assert.True(t, found)
}
