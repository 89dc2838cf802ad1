package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestionloc_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gestionloc_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Business metrics
	AnalysesComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestionloc_analyses_computed_total",
			Help: "Total number of profitability analyses computed",
		},
		[]string{"scope", "cache"}, // scope: portfolio, property; cache: hit, miss
	)

	PaymentsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gestionloc_payments_generated_total",
			Help: "Total number of monthly payments generated",
		},
	)

	RemindersSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gestionloc_reminders_sent_total",
			Help: "Total number of payment reminders sent",
		},
	)

	PaymentsMarkedLateTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gestionloc_payments_marked_late_total",
			Help: "Total number of payments transitioned to late",
		},
	)

	// System metrics
	DatabaseConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gestionloc_database_connections",
			Help: "Number of database connections",
		},
		[]string{"state"}, // open, idle, in_use
	)

	RateLimitHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestionloc_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"endpoint"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordAnalysis records an analysis computation
func RecordAnalysis(scope string, cacheHit bool) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	AnalysesComputedTotal.WithLabelValues(scope, cache).Inc()
}

// RecordRateLimitHit records a rate limit hit
func RecordRateLimitHit(endpoint string) {
	RateLimitHitsTotal.WithLabelValues(endpoint).Inc()
}
