package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRecordsObservations(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWith(registry)

	m.ObserveDocument("facture", "generated", 50*time.Millisecond)
	m.ObserveDocument("facture", "generated", 30*time.Millisecond)
	m.ObserveSequenceRetry()
	m.ObserveHTTP("/v1/documents", "GET", 200, 10*time.Millisecond)
	m.ObserveHTTP("", "GET", 500, 10*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.documentsGenerated.WithLabelValues("facture", "generated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sequenceRetries))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("/v1/documents", "GET", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("unknown", "GET", "5xx")))
}

func TestNewWithReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewWith(registry)
	first.ObserveSequenceRetry()

	// constructing again against the same registerer must not panic and
	// must keep counting on the same collectors
	second := NewWith(registry)
	second.ObserveSequenceRetry()

	assert.Equal(t, float64(2), testutil.ToFloat64(first.sequenceRetries))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveDocument("facture", "generated", time.Millisecond)
		m.ObserveSequenceRetry()
		m.ObserveHTTP("/health", "GET", 200, time.Millisecond)
	})
}
