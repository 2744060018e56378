package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. A nil *Metrics
// records nothing.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Codec metrics
	codecOperationsTotal *prometheus.CounterVec
	codecBytesTotal      *prometheus.CounterVec

	// Fingerprint metrics
	fingerprintsTotal   *prometheus.CounterVec
	fingerprintDuration *prometheus.HistogramVec

	// Cache metrics
	cacheLookupsTotal *prometheus.CounterVec
	cacheEntries      prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics with the default
// registerer
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all Prometheus metrics and registers them with reg
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "w3stat_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "w3stat_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "w3stat_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		codecOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "w3stat_codec_operations_total",
				Help: "Total number of checksum, digest and stat string operations",
			},
			[]string{"operation", "status"},
		),

		codecBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "w3stat_codec_input_bytes_total",
				Help: "Total number of input bytes processed by codec operations",
			},
			[]string{"operation"},
		),

		fingerprintsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "w3stat_fingerprints_total",
				Help: "Total number of map fingerprint requests",
			},
			[]string{"source", "status"},
		),

		fingerprintDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "w3stat_fingerprint_duration_seconds",
				Help:    "Map fingerprint duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),

		cacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "w3stat_cache_lookups_total",
				Help: "Total number of fingerprint cache lookups",
			},
			[]string{"result"},
		),

		cacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "w3stat_cache_entries",
				Help: "Number of fingerprints in the cache",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "w3stat_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "w3stat_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCodecOperation records a checksum, digest or stat string operation
// over n input bytes
func (m *Metrics) RecordCodecOperation(operation string, n int, success bool) {
	if m == nil {
		return
	}
	m.codecOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
	m.codecBytesTotal.WithLabelValues(operation).Add(float64(n))
}

// ObserveFingerprint implements fingerprint.Observer
func (m *Metrics) ObserveFingerprint(source string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.fingerprintsTotal.WithLabelValues(source, statusLabel(err == nil)).Inc()
	m.fingerprintDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveCacheLookup implements storage.Observer
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// UpdateCacheStats updates cache statistics
func (m *Metrics) UpdateCacheStats(entries int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(entries))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	if m == nil {
		return
	}
	m.authRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	if m == nil {
		return
	}
	m.healthChecksTotal.WithLabelValues(statusLabel(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware.
// Requests without a key are not counted.
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get(apiKeyHeader) != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
