// Package metrics provides observability for the validation module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for validation operations.
type Metrics struct {
	// Validation latency by entity kind
	ValidationLatency *prometheus.HistogramVec

	// Crisis budget breaches by entity kind
	CrisisBudgetExceeded *prometheus.CounterVec

	// Crisis fallbacks engaged by entity kind
	FallbacksEngaged *prometheus.CounterVec

	// Compliance violations by category
	ComplianceViolations *prometheus.CounterVec

	// Batch outcomes by result
	BatchOutcomes *prometheus.CounterVec
}

// New creates a Metrics instance with all validation metrics registered.
func New() *Metrics {
	return &Metrics{
		ValidationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "haven_validation_duration_seconds",
			Help:    "Duration of single-entity validation calls by kind",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1, 0.2, 0.5},
		}, []string{"kind"}),

		CrisisBudgetExceeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "haven_validation_crisis_budget_exceeded_total",
			Help: "Crisis-timed validations that exceeded the 200ms crisis budget",
		}, []string{"kind"}),

		FallbacksEngaged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "haven_validation_crisis_fallbacks_total",
			Help: "Validation failures replaced by synthesized safe entities",
		}, []string{"kind"}),

		ComplianceViolations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "haven_validation_compliance_violations_total",
			Help: "Compliance violations by category",
		}, []string{"category"}), // category: "financial_isolation", "health_isolation"

		BatchOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "haven_validation_batch_total",
			Help: "Batch validation calls by aggregate result",
		}, []string{"result"}), // result: "valid", "invalid"
	}
}

// ObserveValidation records the duration of one validation call.
func (m *Metrics) ObserveValidation(kind string, d time.Duration) {
	if m != nil {
		m.ValidationLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// IncrementBudgetExceeded records a crisis budget breach.
func (m *Metrics) IncrementBudgetExceeded(kind string) {
	if m != nil {
		m.CrisisBudgetExceeded.WithLabelValues(kind).Inc()
	}
}

// IncrementFallback records a synthesized fallback entity.
func (m *Metrics) IncrementFallback(kind string) {
	if m != nil {
		m.FallbacksEngaged.WithLabelValues(kind).Inc()
	}
}

// IncrementComplianceViolation records a violation by category.
func (m *Metrics) IncrementComplianceViolation(category string) {
	if m != nil {
		m.ComplianceViolations.WithLabelValues(category).Inc()
	}
}

// IncrementBatch records a batch call result.
func (m *Metrics) IncrementBatch(allValid bool) {
	if m != nil {
		result := "valid"
		if !allValid {
			result = "invalid"
		}
		m.BatchOutcomes.WithLabelValues(result).Inc()
	}
}
