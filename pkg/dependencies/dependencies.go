// Package dependencies provides a centralized dependency container for verba.
// Related dependencies are grouped together and configured through a fluent API.
package dependencies

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/lerenn/verba/pkg/cache"
	"github.com/lerenn/verba/pkg/logger"
	"github.com/lerenn/verba/pkg/metrics"
)

// Validation errors for missing dependencies.
var (
	ErrCacheMissing      = errors.New("cache dependency is required but not set")
	ErrLoggerMissing     = errors.New("logger dependency is required but not set")
	ErrHTTPClientMissing = errors.New("http client dependency is required but not set")
	ErrClockMissing      = errors.New("clock dependency is required but not set")
	ErrRandMissing       = errors.New("rand dependency is required but not set")
)

// Clock returns the current time.
type Clock func() time.Time

// Rand picks random indexes, used to choose assignees.
type Rand interface {
	// IntN returns a number in [0, n).
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// Dependencies holds shared dependencies across the application.
type Dependencies struct {
	Cache      cache.Cache
	Logger     logger.Logger
	Metrics    *metrics.Metrics
	HTTPClient *http.Client
	Clock      Clock
	Rand       Rand
}

// New creates a new Dependencies instance with sensible defaults.
func New() *Dependencies {
	return &Dependencies{
		Logger:     logger.NewNoopLogger(),
		HTTPClient: http.DefaultClient,
		Clock:      time.Now,
		Rand:       globalRand{},
		// Cache is left nil as its size and TTL come from the configuration.
		// Metrics is optional: a nil value records nothing.
	}
}

// WithCache sets the resource cache and returns the instance for chaining.
func (d *Dependencies) WithCache(c cache.Cache) *Dependencies {
	d.Cache = c
	return d
}

// WithLogger sets the logger and returns the instance for chaining.
func (d *Dependencies) WithLogger(l logger.Logger) *Dependencies {
	d.Logger = l
	return d
}

// WithMetrics sets the metrics and returns the instance for chaining.
func (d *Dependencies) WithMetrics(m *metrics.Metrics) *Dependencies {
	d.Metrics = m
	return d
}

// WithHTTPClient sets the HTTP client and returns the instance for chaining.
func (d *Dependencies) WithHTTPClient(c *http.Client) *Dependencies {
	d.HTTPClient = c
	return d
}

// WithClock sets the clock and returns the instance for chaining.
func (d *Dependencies) WithClock(c Clock) *Dependencies {
	d.Clock = c
	return d
}

// WithRand sets the random source and returns the instance for chaining.
func (d *Dependencies) WithRand(r Rand) *Dependencies {
	d.Rand = r
	return d
}

// dependencyCheck represents a dependency validation check.
type dependencyCheck struct {
	missing bool
	err     error
}

// Validate checks that all required dependencies are set and returns an error if any are missing.
func (d *Dependencies) Validate() error {
	checks := []dependencyCheck{
		{d.Cache == nil, ErrCacheMissing},
		{d.Logger == nil, ErrLoggerMissing},
		{d.HTTPClient == nil, ErrHTTPClientMissing},
		{d.Clock == nil, ErrClockMissing},
		{d.Rand == nil, ErrRandMissing},
	}

	for _, check := range checks {
		if check.missing {
			return check.err
		}
	}
	return nil
}
