// Package observability provides Prometheus metrics for the orchestrator.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xiaot623/helpdesk/internal/domain"
)

const namespace = "helpdesk"

// Metrics holds all Prometheus collectors for the turn pipeline. All methods
// are safe on a nil receiver so components can run uninstrumented in tests.
type Metrics struct {
	turnsTotal          *prometheus.CounterVec
	turnDuration        *prometheus.HistogramVec
	classifierFallbacks prometheus.Counter
	searchErrors        prometheus.Counter
	activeStreams       prometheus.Gauge
}

// New registers the collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		turnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Completed turns by category and status.",
		}, []string{"category", "status"}),
		turnDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Wall time of a turn from receive to terminal event.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),
		classifierFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_fallbacks_total",
			Help:      "Classifications that defaulted to the technical category.",
		}),
		searchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_errors_total",
			Help:      "Semantic search calls that degraded to an empty result set.",
		}),
		activeStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streams",
			Help:      "Turn streams currently being delivered.",
		}),
	}
}

// ObserveTurn records a finished turn.
func (m *Metrics) ObserveTurn(category domain.Category, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(string(category), status).Inc()
	m.turnDuration.WithLabelValues(string(category)).Observe(d.Seconds())
}

// ClassifierFallback counts a default-to-technical classification.
func (m *Metrics) ClassifierFallback() {
	if m == nil {
		return
	}
	m.classifierFallbacks.Inc()
}

// SearchError counts a soft-failed semantic search.
func (m *Metrics) SearchError() {
	if m == nil {
		return
	}
	m.searchErrors.Inc()
}

// StreamStarted marks a stream as active until the returned func is called.
func (m *Metrics) StreamStarted() func() {
	if m == nil {
		return func() {}
	}
	m.activeStreams.Inc()
	return m.activeStreams.Dec
}
