package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache[V any]() (*TTLCache[V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[V](0)
	c.now = clock.Now
	return c, clock
}

func TestTTLCache_BasicOperations(t *testing.T) {
	c, _ := newTestCache[string]()
	defer c.Stop()

	c.Set("key1", "value1", time.Second)
	value, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", value)

	_, found = c.Get("missing")
	assert.False(t, found)

	c.Delete("key1")
	_, found = c.Get("key1")
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_Expiration(t *testing.T) {
	c, clock := newTestCache[int]()
	defer c.Stop()

	c.Set("short", 1, 50*time.Millisecond)
	c.Set("long", 2, time.Hour)

	clock.Advance(time.Second)

	_, found := c.Get("short")
	assert.False(t, found)
	value, found := c.Get("long")
	assert.True(t, found)
	assert.Equal(t, 2, value)

	// expired entries linger until swept
	assert.Equal(t, 2, c.Len())
	c.sweep()
	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_SetRefreshesExpiry(t *testing.T) {
	c, clock := newTestCache[string]()
	defer c.Stop()

	c.Set("k", "v1", time.Minute)
	clock.Advance(50 * time.Second)
	c.Set("k", "v2", time.Minute)
	clock.Advance(50 * time.Second)

	value, found := c.Get("k")
	assert.True(t, found)
	assert.Equal(t, "v2", value)
}

func TestTTLCache_BackgroundSweep(t *testing.T) {
	c := NewTTLCache[string](5 * time.Millisecond)
	defer c.Stop()

	c.Set("k", "v", time.Millisecond)
	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestTTLCache_StopIsIdempotent(t *testing.T) {
	c := NewTTLCache[string](time.Millisecond)
	assert.NotPanics(t, func() {
		c.Stop()
		c.Stop()
	})
}

func TestTTLCache_Concurrent(t *testing.T) {
	c := NewTTLCache[int](time.Millisecond)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d-%d", i, j%10)
				c.Set(key, j, time.Minute)
				c.Get(key)
				if j%7 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 100)
}
