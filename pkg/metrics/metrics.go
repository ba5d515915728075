package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the metrics registry exposed on /api/metrics
var Registry = prometheus.NewRegistry()

var (
	// Custom histogram buckets optimized for API response times ranging from
	// milliseconds to multi-second store operations
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21}

	// HTTP Metrics
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Store Metrics
	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StoreOperationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	Signups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_signups_total",
			Help: "Total signup attempts",
		},
		[]string{"role", "status"},
	)

	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_logins_total",
			Help: "Total login attempts",
		},
		[]string{"status"},
	)

	SessionRevocations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mentorlink_session_revocations_total",
			Help: "Total explicit session revocations (logouts)",
		},
	)

	ProfileUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_profile_updates_total",
			Help: "Total number of profile updates",
		},
		[]string{"status"},
	)

	ProfilePictureUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_profile_picture_uploads_total",
			Help: "Total number of profile picture uploads",
		},
		[]string{"status"},
	)

	MatchRequestsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_match_requests_created_total",
			Help: "Total match request creation attempts",
		},
		[]string{"status"},
	)

	MatchRequestDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlink_match_request_decisions_total",
			Help: "Total match request transitions out of pending",
		},
		[]string{"outcome", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init registers all metrics with the registry, labelled with the service name.
func Init(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, Registry)
	reg.MustRegister(
		collectors.NewGoCollector(),
		HTTPRequestDuration,
		HTTPRequestTotal,
		ActiveRequests,
		StoreOperationDuration,
		StoreOperationTotal,
		CacheHits,
		CacheMisses,
		Signups,
		Logins,
		SessionRevocations,
		ProfileUpdates,
		ProfilePictureUploads,
		MatchRequestsCreated,
		MatchRequestDecisions,
		GoRoutines,
		HeapAlloc,
	)
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// RecordStoreOperation records duration and outcome for a store call
func RecordStoreOperation(operation, status string, duration float64) {
	StoreOperationDuration.WithLabelValues(operation, status).Observe(duration)
	StoreOperationTotal.WithLabelValues(operation, status).Inc()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
