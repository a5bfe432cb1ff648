package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the pool service

var (
	// Upstream API metrics (sheets, espn)
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_api_calls_total",
			Help: "Total number of upstream API calls",
		},
		[]string{"api", "endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pool_api_call_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"api", "endpoint"},
	)

	APIRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_api_retries_total",
			Help: "Total number of retried upstream API calls",
		},
		[]string{"api"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pool_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache", "tier"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheStaleServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_cache_stale_served_total",
			Help: "Total number of stale entries served after an upstream failure",
		},
		[]string{"cache"},
	)

	// Resolution metrics
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_resolutions_total",
			Help: "Total number of pick resolutions by strategy",
		},
		[]string{"strategy"},
	)

	GradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_grades_total",
			Help: "Total number of picks graded by result",
		},
		[]string{"result"},
	)

	// Job metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pool_job_duration_seconds",
			Help:    "Duration of scheduled jobs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"job"},
	)

	LastSuccessfulJob = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pool_last_successful_job_timestamp",
			Help: "Timestamp of the last successful run per job",
		},
		[]string{"job"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an upstream API call
func RecordAPICall(api, endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(api, endpoint, status).Inc()
	APICallDuration.WithLabelValues(api, endpoint).Observe(duration)
}

// RecordAPIRetry records a retried upstream call
func RecordAPIRetry(api string) {
	APIRetriesTotal.WithLabelValues(api).Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit on the memory or redis tier
func RecordCacheHit(cache, tier string) {
	CacheHitsTotal.WithLabelValues(cache, tier).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cache string) {
	CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordStaleServed records a stale read after an upstream failure
func RecordStaleServed(cache string) {
	CacheStaleServedTotal.WithLabelValues(cache).Inc()
}

// RecordResolution records which strategy resolved a pick
func RecordResolution(strategy string) {
	ResolutionsTotal.WithLabelValues(strategy).Inc()
}

// RecordGrade records a graded pick
func RecordGrade(result string) {
	GradesTotal.WithLabelValues(result).Inc()
}

// RecordJob records a scheduled job run
func RecordJob(job, status string, duration float64) {
	JobRunsTotal.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(duration)

	if status == "success" {
		LastSuccessfulJob.WithLabelValues(job).SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
