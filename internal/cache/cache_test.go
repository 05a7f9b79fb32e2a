package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string]()

	c.Set("key1", "value1", 10*time.Second)
	val, exists := c.Get("key1")
	assert.True(t, exists)
	assert.Equal(t, "value1", val)

	// Missing key returns the zero value
	val, exists = c.Get("nonexistent")
	assert.False(t, exists)
	assert.Empty(t, val)
}

func TestCache_SliceValues(t *testing.T) {
	c := New[[]int]()

	c.Set("numbers", []int{1, 2, 3}, 10*time.Second)
	val, exists := c.Get("numbers")
	assert.True(t, exists)
	assert.Equal(t, []int{1, 2, 3}, val)
}

func TestCache_Expiration(t *testing.T) {
	c := New[string]()

	c.Set("expiring", "value", 50*time.Millisecond)

	val, exists := c.Get("expiring")
	assert.True(t, exists)
	assert.Equal(t, "value", val)

	time.Sleep(80 * time.Millisecond)

	_, exists = c.Get("expiring")
	assert.False(t, exists)
}

func TestCache_UpdateValue(t *testing.T) {
	c := New[string]()

	c.Set("key", "value1", 10*time.Second)
	c.Set("key", "value2", 10*time.Second)

	val, exists := c.Get("key")
	assert.True(t, exists)
	assert.Equal(t, "value2", val)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[string]()

	c.Set("key1", "value1", 10*time.Second)
	c.Set("key2", "value2", 10*time.Second)

	c.Delete("key1")
	_, exists := c.Get("key1")
	assert.False(t, exists)

	// Delete of a missing key should not panic
	c.Delete("nonexistent")

	c.Clear()
	_, exists = c.Get("key2")
	assert.False(t, exists)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Set("shared", n, time.Second)
		}(i)
		go func() {
			defer wg.Done()
			c.Get("shared")
		}()
	}

	wg.Wait()
}
