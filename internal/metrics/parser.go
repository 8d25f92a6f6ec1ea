package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query parsing Prometheus metrics.
var (
	ParseRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creatorinsight",
			Name:      "parse_requests_total",
			Help:      "Total number of remote query-parse requests",
		},
		[]string{"provider", "model", "status"},
	)

	ParseRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creatorinsight",
			Name:      "parse_request_duration_seconds",
			Help:      "Remote query-parse request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	ParseFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creatorinsight",
			Name:      "parse_fallback_total",
			Help:      "Queries interpreted by the local heuristic after a remote failure",
		},
		[]string{"reason"},
	)

	ParseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creatorinsight",
			Name:      "parse_cache_total",
			Help:      "Parse cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var parserMetricsRegistered bool

// RegisterParserMetrics registers Prometheus parser metrics. Must be called once from main.
func RegisterParserMetrics() {
	if parserMetricsRegistered {
		return
	}
	prometheus.MustRegister(ParseRequestsTotal)
	prometheus.MustRegister(ParseRequestDuration)
	prometheus.MustRegister(ParseFallbackTotal)
	prometheus.MustRegister(ParseCacheTotal)
	parserMetricsRegistered = true
}
