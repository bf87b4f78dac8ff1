package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zrcal_build_info",
			Help: "Build information of zrcal",
		},
		[]string{"version", "commit", "date"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zrcal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zrcal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zrcal_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zrcal_ingest_runs_total",
			Help: "Total number of per-type ingestion runs",
		},
		[]string{"type", "status"},
	)

	IngestEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zrcal_ingest_events_total",
			Help: "Total number of collection events produced by ingestion",
		},
		[]string{"type"},
	)

	IngestRowsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zrcal_ingest_rows_skipped_total",
			Help: "Total number of CSV rows dropped during ingestion",
		},
		[]string{"type"},
	)
)

// Middleware returns a chi middleware that records HTTP metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Use the route pattern if available, otherwise use the path
		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = r.URL.Path
		}

		status := strconv.Itoa(ww.Status())
		duration := time.Since(start).Seconds()

		HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// RecordIngest records the outcome of one per-type ingestion run.
func RecordIngest(wasteType string, events, skippedRows int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	IngestRunsTotal.WithLabelValues(wasteType, status).Inc()
	IngestEventsTotal.WithLabelValues(wasteType).Add(float64(events))
	IngestRowsSkippedTotal.WithLabelValues(wasteType).Add(float64(skippedRows))
}
