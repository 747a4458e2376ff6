// Package metrics provides Prometheus observability for the deletion and
// receipt pipelines. All methods are nil-safe so components can run without
// metrics in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Deletions counts successful destructive deletes by record type.
	Deletions *prometheus.CounterVec

	// DeletionFailures counts failed delete attempts by pipeline stage
	// ("audit_write", "row_delete").
	DeletionFailures *prometheus.CounterVec

	// ReceiptCleanupFailures counts best-effort blob removals that failed.
	ReceiptCleanupFailures prometheus.Counter
}

// New creates a Metrics instance registered on the default registry. Call at
// most once per process.
func New() *Metrics {
	return &Metrics{
		Deletions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ogoue_deletions_total",
			Help: "Total successful destructive deletes by record type",
		}, []string{"record_type"}),

		DeletionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ogoue_deletion_failures_total",
			Help: "Total failed delete attempts by pipeline stage",
		}, []string{"stage"}),

		ReceiptCleanupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ogoue_receipt_cleanup_failures_total",
			Help: "Total receipt blob removals that failed during deletes",
		}),
	}
}

// IncrementDeletion records a successful destructive delete.
func (m *Metrics) IncrementDeletion(recordType string) {
	if m != nil {
		m.Deletions.WithLabelValues(recordType).Inc()
	}
}

// IncrementDeletionFailure records a failed delete attempt.
func (m *Metrics) IncrementDeletionFailure(stage string) {
	if m != nil {
		m.DeletionFailures.WithLabelValues(stage).Inc()
	}
}

// IncrementReceiptCleanupFailure records a failed best-effort blob removal.
func (m *Metrics) IncrementReceiptCleanupFailure() {
	if m != nil {
		m.ReceiptCleanupFailures.Inc()
	}
}
