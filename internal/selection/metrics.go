package selection

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricSelectionsTotal     = "selection_requests_total"
	MetricSelectionsNoMatch   = "selection_no_match_total"
	MetricCandidatesEvaluated = "selection_candidates_evaluated_total"
	MetricSelectionDuration   = "selection_duration_seconds"
	MetricSelectionConfidence = "selection_confidence"
)

// Metrics contains Prometheus metrics for the selection service.
// All operations are thread-safe.
type Metrics struct {
	selectionsTotal     prometheus.Counter
	selectionsNoMatch   prometheus.Counter
	candidatesEvaluated prometheus.Counter
	selectionDuration   prometheus.Histogram
	selectionConfidence prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		selectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricSelectionsTotal,
			Help: "Total number of selection requests processed",
		}),
		selectionsNoMatch: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricSelectionsNoMatch,
			Help: "Total number of selection requests that found no qualifying candidate",
		}),
		candidatesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCandidatesEvaluated,
			Help: "Total number of candidate images scored",
		}),
		selectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSelectionDuration,
			Help:    "Histogram of end-to-end selection latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		selectionConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSelectionConfidence,
			Help:    "Histogram of selection confidence (gap between top two scores)",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.selectionsTotal,
		m.selectionsNoMatch,
		m.candidatesEvaluated,
		m.selectionDuration,
		m.selectionConfidence,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSelection records one completed selection pass.
func (m *Metrics) ObserveSelection(candidates int, confidence float64, seconds float64, matched bool) {
	m.selectionsTotal.Inc()
	m.candidatesEvaluated.Add(float64(candidates))
	m.selectionDuration.Observe(seconds)
	if matched {
		m.selectionConfidence.Observe(confidence)
	} else {
		m.selectionsNoMatch.Inc()
	}
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.selectionsTotal,
		m.selectionsNoMatch,
		m.candidatesEvaluated,
		m.selectionDuration,
		m.selectionConfidence,
	}
}
