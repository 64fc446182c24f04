// Package metrics exposes prometheus counters for upstream calls and cache usage.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "verba"

// Metrics groups the collectors used by the transport and cache layers.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Number of requests sent to the hosting API, by method and status.",
		}, []string{"method", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Number of resource cache lookups, by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.upstreamRequests, m.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveUpstream counts one upstream request. A zero status means the
// request never got a response.
func (m *Metrics) ObserveUpstream(method string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(method, label).Inc()
}

// ObserveCacheLookup counts one cache lookup.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// UpstreamRequests returns the upstream request counter.
func (m *Metrics) UpstreamRequests() *prometheus.CounterVec {
	return m.upstreamRequests
}

// CacheLookups returns the cache lookup counter.
func (m *Metrics) CacheLookups() *prometheus.CounterVec {
	return m.cacheLookups
}
