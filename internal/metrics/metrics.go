package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks statusd HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts statusd HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ImportRows counts pipeline row outcomes by entity and outcome
	// (inserted, updated, skipped, excluded).
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Total imported rows by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)

	// ImportRunsTotal counts finished import runs by entity and status (ok, failed).
	ImportRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_runs_total",
			Help: "Total import runs by entity and status",
		},
		[]string{"entity", "status"},
	)
)

var initOnce sync.Once

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ImportRows, ImportRunsTotal)
	})
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordImport records one finished import pipeline's row outcomes.
func RecordImport(entity string, inserted, updated, skipped, excluded int) {
	ImportRows.WithLabelValues(entity, "inserted").Add(float64(inserted))
	ImportRows.WithLabelValues(entity, "updated").Add(float64(updated))
	ImportRows.WithLabelValues(entity, "skipped").Add(float64(skipped))
	ImportRows.WithLabelValues(entity, "excluded").Add(float64(excluded))
}

// RecordRun records one finished import run's status.
func RecordRun(entity, status string) {
	ImportRunsTotal.WithLabelValues(entity, status).Inc()
}
