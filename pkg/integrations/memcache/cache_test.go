package memcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := New[string, float64]()

	_, ok := c.Get("BTC")
	assert.False(t, ok)

	c.Set("BTC", 87222.51)
	val, ok := c.Get("BTC")
	require.True(t, ok)
	assert.Equal(t, 87222.51, val)

	c.Delete("BTC")
	_, ok = c.Get("BTC")
	assert.False(t, ok)
}

func TestCache_Keys(t *testing.T) {
	c := New[string, float64]()
	c.Set("BTC", 1)
	c.Set("ETH", 2)

	assert.ElementsMatch(t, []string{"BTC", "ETH"}, c.Keys())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set(n, n)
			c.Get(n)
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.Keys(), 50)
}
