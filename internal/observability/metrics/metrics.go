// Package metrics exposes Prometheus instruments for document generation.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures generation health signals.
type Metrics struct {
	documentsGenerated *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	sequenceRetries    prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registers the instruments on the default registerer, which /metrics
// serves.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the instruments on the given registerer. Re-registering
// the same metric name reuses the existing collector, so repeated
// construction in tests is safe.
func NewWith(registerer prometheus.Registerer) *Metrics {
	return &Metrics{
		documentsGenerated: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gendoc_documents_generated_total",
			Help: "Documents generated, by type and status.",
		}, []string{"type", "status"})),
		generationDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gendoc_generation_duration_seconds",
			Help:    "Per-document generation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"type"})),
		sequenceRetries: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gendoc_sequence_retries_total",
			Help: "Retries of the numbering upsert on transient lock contention.",
		})),
		httpRequests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gendoc_http_requests_total",
			Help: "HTTP requests, by route, method and status class.",
		}, []string{"route", "method", "status"})),
		httpDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gendoc_http_request_duration_seconds",
			Help:    "HTTP request duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"})),
	}
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(C)
		}
		panic(err)
	}
	return collector
}

// ObserveDocument records one generation outcome.
func (m *Metrics) ObserveDocument(docType, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documentsGenerated.WithLabelValues(docType, status).Inc()
	m.generationDuration.WithLabelValues(docType).Observe(elapsed.Seconds())
}

// ObserveSequenceRetry records one numbering retry.
func (m *Metrics) ObserveSequenceRetry() {
	if m == nil {
		return
	}
	m.sequenceRetries.Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	route = strings.TrimSpace(route)
	if route == "" {
		route = "unknown"
	}
	m.httpRequests.WithLabelValues(route, method, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
