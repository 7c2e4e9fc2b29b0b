package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pwpolicy/internal/policy/models"
)

// Metrics provides observability for password validation.
type Metrics struct {
	// Verdicts by outcome ("accepted", "rejected")
	Validations *prometheus.CounterVec

	// Violations by kind
	Violations *prometheus.CounterVec

	ValidateLatency prometheus.Histogram

	// History store calls by operation ("check", "record") and outcome
	HistoryOps     *prometheus.CounterVec
	HistoryLatency *prometheus.HistogramVec
}

// New registers the validation metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pwpolicy_validations_total",
			Help: "Total password validations by outcome",
		}, []string{"outcome"}),

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pwpolicy_violations_total",
			Help: "Total policy violations by kind",
		}, []string{"kind"}),

		ValidateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pwpolicy_validate_duration_seconds",
			Help:    "Duration of a full validation including history I/O",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		HistoryOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pwpolicy_history_operations_total",
			Help: "Password history operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		HistoryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pwpolicy_history_duration_seconds",
			Help:    "Latency of password history store calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
}

// ObserveVerdict records one validation outcome and its violations.
func (m *Metrics) ObserveVerdict(v *models.Verdict, d time.Duration) {
	if m == nil || v == nil {
		return
	}
	outcome := "rejected"
	if v.Accepted {
		outcome = "accepted"
	}
	m.Validations.WithLabelValues(outcome).Inc()
	for _, violation := range v.Violations {
		m.Violations.WithLabelValues(string(violation.Kind)).Inc()
	}
	m.ValidateLatency.Observe(d.Seconds())
}

// ObserveHistory records a history gate outcome.
func (m *Metrics) ObserveHistory(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.HistoryOps.WithLabelValues(operation, outcome).Inc()
	if d > 0 {
		m.HistoryLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
