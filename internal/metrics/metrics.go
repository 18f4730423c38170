// Package metrics exposes Prometheus counters for upstream call volume and
// cache effectiveness.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// UpstreamRequests counts outgoing requests per upstream source
	// (explorer, pricefeed, subgraph).
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tvl_upstream_requests_total",
		Help: "Number of requests issued to upstream data sources.",
	}, []string{"source"})

	// UpstreamErrors counts failed upstream requests per source.
	UpstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tvl_upstream_errors_total",
		Help: "Number of failed upstream requests.",
	}, []string{"source"})

	// CacheHits counts valuation-pass reads served from cache, per store.
	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tvl_cache_hits_total",
		Help: "Number of cache reads satisfied without an upstream call.",
	}, []string{"store"})

	// CacheMisses counts valuation-pass reads that required a fetch.
	CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tvl_cache_misses_total",
		Help: "Number of cache reads that triggered an upstream call.",
	}, []string{"store"})

	// Passes counts completed valuation passes.
	Passes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tvl_valuation_passes_total",
		Help: "Number of completed valuation passes.",
	})
)

// MustRegister registers all collectors with the default registry. Call once
// at startup.
func MustRegister() {
	prometheus.MustRegister(UpstreamRequests, UpstreamErrors, CacheHits, CacheMisses, Passes)
}
