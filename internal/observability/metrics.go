package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace defines the global prefix for all metrics (finrec_...).
const namespace = "finrec"

var (
	// -------------------------------------------------------------------------
	// HTTP API
	// -------------------------------------------------------------------------

	// HTTPReqDuration measures the latency of HTTP requests.
	// Metric: finrec_http_handling_seconds
	HTTPReqDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "handling_seconds",
		Help:      "Time taken to handle HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// HTTPReqTotal counts the total number of HTTP requests.
	// Metric: finrec_http_requests_total
	HTTPReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests",
	}, []string{"method", "path", "code"})

	// -------------------------------------------------------------------------
	// RULE ENGINE
	// -------------------------------------------------------------------------

	// RuleEvaluationsTotal counts full-rule evaluations by outcome
	// (match, no_match, error, cached).
	RuleEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "rule_evaluations_total",
		Help:      "Total dynamic rule evaluations by outcome",
	}, []string{"outcome"})

	// BrokenRulesTotal counts evaluations aborted by a rule-definition error.
	// A steadily climbing value means someone persisted a malformed rule.
	BrokenRulesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "broken_rules_total",
		Help:      "Total rule evaluations aborted by a rule-definition error",
	})

	// -------------------------------------------------------------------------
	// FACTS PROVIDER
	// -------------------------------------------------------------------------

	// FactQueriesTotal counts queries reaching the transactions store,
	// i.e. cache misses that went to SQL, by fact kind.
	FactQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "facts",
		Name:      "queries_total",
		Help:      "Total aggregation queries executed against the transactions store",
	}, []string{"fact"})

	// -------------------------------------------------------------------------
	// CACHES
	// -------------------------------------------------------------------------

	// CacheHits counts in-memory cache hits per cache.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total in-memory cache hits",
	}, []string{"cache"})

	// CacheMisses counts in-memory cache misses per cache.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total in-memory cache misses",
	}, []string{"cache"})

	// CacheClearsTotal counts administrative full-cache sweeps.
	CacheClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "clears_total",
		Help:      "Total administrative clear-all-caches operations",
	})

	// -------------------------------------------------------------------------
	// FIRE-COUNT STATS
	// -------------------------------------------------------------------------

	// FireCountIncrements counts persisted fire-count increments.
	FireCountIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stats",
		Name:      "fire_count_increments_total",
		Help:      "Total persisted fire-count increments",
	})
)
