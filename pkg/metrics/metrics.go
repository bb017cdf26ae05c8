// Package metrics holds the Prometheus collectors shared by the program
// router and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics for SlotKit
type Metrics struct {
	// Instruction metrics
	instructionsTotal   *prometheus.CounterVec
	instructionDuration *prometheus.HistogramVec

	// Slot store metrics
	storeOperationsTotal *prometheus.CounterVec
	storeBytesWritten    prometheus.Counter

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		instructionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotkit_instructions_total",
				Help: "Total number of invoked instructions",
			},
			[]string{"instruction", "status"},
		),

		instructionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slotkit_instruction_duration_seconds",
				Help:    "Instruction validate+process duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"instruction"},
		),

		storeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotkit_store_operations_total",
				Help: "Total number of slot store operations",
			},
			[]string{"operation", "status"},
		),

		storeBytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "slotkit_store_bytes_written_total",
				Help: "Bytes committed to the slot store",
			},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slotkit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slotkit_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "slotkit_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
	}
}

func status(success bool) string {
	if success {
		return StatusSuccess
	}
	return StatusError
}

// RecordInstruction records one instruction invocation. A nil receiver is a no-op.
func (m *Metrics) RecordInstruction(name string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.instructionsTotal.WithLabelValues(name, status(success)).Inc()
	m.instructionDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordStoreOperation records a slot store operation. A nil receiver is a no-op.
func (m *Metrics) RecordStoreOperation(operation string, success bool, bytesWritten int) {
	if m == nil {
		return
	}
	m.storeOperationsTotal.WithLabelValues(operation, status(success)).Inc()
	if bytesWritten > 0 {
		m.storeBytesWritten.Add(float64(bytesWritten))
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
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

		// Capture the status code for the request counter
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
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
