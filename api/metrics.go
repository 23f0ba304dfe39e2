package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector holds the Prometheus instruments for the BFF surface.
type MetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authFailures    *prometheus.CounterVec
}

// NewMetrics creates a collector and registers it with reg. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewMetrics(reg prometheus.Registerer) *MetricsCollector {
	m := newMetricsCollector()
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.authFailures)
	return m
}

func newMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securitycenter",
			Subsystem: "bff",
			Name:      "requests_total",
			Help:      "BFF requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "securitycenter",
			Subsystem: "bff",
			Name:      "request_duration_seconds",
			Help:      "BFF request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securitycenter",
			Subsystem: "bff",
			Name:      "auth_failures_total",
			Help:      "Authentication failures by kind.",
		}, []string{"kind"}),
	}
}

func (m *MetricsCollector) recordAuthFailure(kind string) {
	m.authFailures.WithLabelValues(kind).Inc()
}

// middleware instruments every request with a counter and a latency
// histogram. The raw path is used as a label; the BFF surface is small
// enough that cardinality is not a concern.
func (m *MetricsCollector) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		m.requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
