package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Event outcomes
const (
	OutcomeHandled = "handled"
	OutcomeIgnored = "ignored"
	OutcomeError   = "error"
)

var (
	// EventsTotal counts lifecycle events by name and outcome
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jdocmanual_finder_events_total",
		Help: "Lifecycle events received, by event and outcome (handled, ignored, error)",
	}, []string{"event", "outcome"})

	// IndexOperationsTotal counts calls into the index backend
	IndexOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jdocmanual_finder_index_operations_total",
		Help: "Index backend operations, by operation and outcome",
	}, []string{"operation", "outcome"})

	// IndexRunDuration observes full and incremental index runs
	IndexRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jdocmanual_finder_index_run_duration_seconds",
		Help:    "Duration of index runs",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
	}, []string{"mode"})
)

// ObserveOperation records one index backend call
func ObserveOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = OutcomeError
	}
	IndexOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
