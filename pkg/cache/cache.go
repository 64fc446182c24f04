// Package cache provides the resource cache sitting in front of the hosting API.
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lerenn/verba/pkg/metrics"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=cache.go -destination=mocks/cache.gen.go -package=mocks

const (
	// DefaultTTL is how long a cached resource stays fresh.
	DefaultTTL = 120 * time.Second
	// DefaultSize is the maximum number of cached resources.
	DefaultSize = 1024
)

// Loader fetches the value of a missing key.
type Loader func() (any, error)

// Cache is a key-value store with expiring entries.
//
// Concurrent callers missing the same key may both run their loader; the
// last one to finish wins. Loader errors are never stored.
type Cache interface {
	// GetOrSet returns the fresh value stored under key, or runs loader and stores its result.
	GetOrSet(key string, loader Loader) (any, error)
	// Delete removes the given keys.
	Delete(keys ...string)
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(prefix string)
}

// Options configures a new LRU cache.
type Options struct {
	Size    int
	TTL     time.Duration
	Metrics *metrics.Metrics
}

type lruCache struct {
	entries *expirable.LRU[string, any]
	metrics *metrics.Metrics
}

// New creates a thread-safe LRU cache whose entries expire after opts.TTL.
func New(opts Options) Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}

	return &lruCache{
		entries: expirable.NewLRU[string, any](opts.Size, nil, opts.TTL),
		metrics: opts.Metrics,
	}
}

func (c *lruCache) GetOrSet(key string, loader Loader) (any, error) {
	if value, ok := c.entries.Get(key); ok {
		c.metrics.ObserveCacheLookup(true)
		return value, nil
	}
	c.metrics.ObserveCacheLookup(false)

	value, err := loader()
	if err != nil {
		return nil, err
	}

	c.entries.Add(key, value)
	return value, nil
}

func (c *lruCache) Delete(keys ...string) {
	for _, key := range keys {
		c.entries.Remove(key)
	}
}

func (c *lruCache) DeletePrefix(prefix string) {
	for _, key := range c.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Remove(key)
		}
	}
}

type noopCache struct{}

// NewNoop creates a cache that never stores anything.
func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) GetOrSet(_ string, loader Loader) (any, error) {
	return loader()
}

func (noopCache) Delete(_ ...string) {}

func (noopCache) DeletePrefix(_ string) {}

// Fetch is a typed GetOrSet.
func Fetch[T any](c Cache, key string, load func() (T, error)) (T, error) {
	value, err := c.GetOrSet(key, func() (any, error) {
		return load()
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: key %q holds %T", ErrUnexpectedType, key, value)
	}
	return typed, nil
}
