//go:build unit

package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lerenn/verba/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOrSet_LoadsOnce(t *testing.T) {
	c := New(Options{})
	calls := 0
	loader := func() (any, error) {
		calls++
		return "pull-7", nil
	}

	first, err := c.GetOrSet("pulls/7", loader)
	require.NoError(t, err)
	second, err := c.GetOrSet("pulls/7", loader)
	require.NoError(t, err)

	assert.Equal(t, "pull-7", first)
	assert.Equal(t, "pull-7", second)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrSet_ErrorNotStored(t *testing.T) {
	c := New(Options{})
	errBoom := errors.New("boom")

	_, err := c.GetOrSet("issues/1", func() (any, error) { return nil, errBoom })
	assert.ErrorIs(t, err, errBoom)

	value, err := c.GetOrSet("issues/1", func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
}

func TestCache_GetOrSet_Expires(t *testing.T) {
	c := New(Options{TTL: 20 * time.Millisecond})
	calls := 0
	loader := func() (any, error) {
		calls++
		return calls, nil
	}

	_, err := c.GetOrSet("k", loader)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		value, err := c.GetOrSet("k", loader)
		return err == nil && value.(int) > 1
	}, time.Second, 10*time.Millisecond)
}

func TestCache_Delete(t *testing.T) {
	c := New(Options{})
	calls := 0
	loader := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _ = c.GetOrSet("pulls/1", loader)
	_, _ = c.GetOrSet("issues/1", loader)
	c.Delete("pulls/1", "issues/1", "missing")
	_, _ = c.GetOrSet("pulls/1", loader)
	_, _ = c.GetOrSet("issues/1", loader)

	assert.Equal(t, 4, calls)
}

func TestCache_DeletePrefix(t *testing.T) {
	c := New(Options{})
	loader := func(v string) Loader {
		return func() (any, error) { return v, nil }
	}

	_, _ = c.GetOrSet("git/trees/feature:pages?recursive=1", loader("a"))
	_, _ = c.GetOrSet("git/trees/feature:pages/home?recursive=0", loader("b"))
	_, _ = c.GetOrSet("git/trees/develop:pages?recursive=1", loader("c"))

	c.DeletePrefix("git/trees/feature:")

	value, _ := c.GetOrSet("git/trees/develop:pages?recursive=1", loader("new"))
	assert.Equal(t, "c", value)
	value, _ = c.GetOrSet("git/trees/feature:pages?recursive=1", loader("new"))
	assert.Equal(t, "new", value)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(Options{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrSet("shared", func() (any, error) { return "v", nil })
			assert.NoError(t, err)
			c.Delete("shared")
		}()
	}
	wg.Wait()
}

func TestCache_Metrics(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	c := New(Options{Metrics: m})

	_, _ = c.GetOrSet("k", func() (any, error) { return 1, nil })
	_, _ = c.GetOrSet("k", func() (any, error) { return 1, nil })

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups().WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups().WithLabelValues("miss")))
}

func TestNoop_AlwaysLoads(t *testing.T) {
	c := NewNoop()
	calls := 0
	loader := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _ = c.GetOrSet("k", loader)
	_, _ = c.GetOrSet("k", loader)
	c.Delete("k")
	c.DeletePrefix("k")

	assert.Equal(t, 2, calls)
}

func TestFetch(t *testing.T) {
	c := New(Options{})

	value, err := Fetch(c, "answer", func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	_, err = Fetch(c, "answer", func() (string, error) { return "nope", nil })
	assert.ErrorIs(t, err, ErrUnexpectedType)
}
