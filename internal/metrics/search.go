package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "cache_hits_total",
			Help:      "Cache hits by tier",
		},
		[]string{"tier"},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "cache_misses_total",
			Help:      "Cache misses across both tiers",
		},
	)

	sharedFetchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "cache_shared_fetches_total",
			Help:      "Fetches deduplicated by single-flight stampede protection",
		},
	)

	degradedRetrievalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "search_degraded_retrievals_total",
			Help:      "Per-kind catalog retrievals dropped from a response",
		},
		[]string{"kind"},
	)

	typoCorrectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "melodex",
			Name:      "search_typo_corrections_total",
			Help:      "Typo-correction dictionary builds triggered by sparse results",
		},
	)
)

// RegisterSearchMetrics registers search collectors explicitly (no init()).
func RegisterSearchMetrics() {
	prometheus.MustRegister(
		cacheHitsTotal,
		cacheMissesTotal,
		sharedFetchesTotal,
		degradedRetrievalsTotal,
		typoCorrectionsTotal,
	)
}

// CacheHit records a hit on the given tier ("local" or "distributed").
func CacheHit(tier string) { cacheHitsTotal.WithLabelValues(tier).Inc() }

// CacheMiss records a miss across both tiers.
func CacheMiss() { cacheMissesTotal.Inc() }

// SharedFetch records a fetch answered by an in-flight computation.
func SharedFetch() { sharedFetchesTotal.Inc() }

// DegradedRetrieval records a result kind dropped from a response.
func DegradedRetrieval(kind string) { degradedRetrievalsTotal.WithLabelValues(kind).Inc() }

// TypoCorrection records a dictionary build.
func TypoCorrection() { typoCorrectionsTotal.Inc() }
