// Package observability exposes prometheus metrics for reconciliation runs.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ckdake/fitler/internal/domain"
)

var (
	recordsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitler",
		Subsystem: "providers",
		Name:      "records_fetched_total",
		Help:      "Normalized activity records fetched, by provider.",
	}, []string{"provider"})
	recordsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitler",
		Subsystem: "reconcile",
		Name:      "records_skipped_total",
		Help:      "Malformed records excluded from clustering.",
	})
	clustersBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitler",
		Subsystem: "reconcile",
		Name:      "clusters_built_total",
		Help:      "Activity clusters produced across all passes.",
	})
	changesPlanned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitler",
		Subsystem: "reconcile",
		Name:      "changes_planned_total",
		Help:      "Change operations planned, by change type.",
	}, []string{"type"})
	lastReconcileGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitler",
		Subsystem: "reconcile",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed reconciliation pass.",
	})
)

func init() {
	prometheus.MustRegister(recordsFetched, recordsSkipped, clustersBuilt, changesPlanned, lastReconcileGauge)
}

// RecordFetched counts records pulled from a provider.
func RecordFetched(p domain.Provider, n int) {
	recordsFetched.WithLabelValues(string(p)).Add(float64(n))
}

// RecordPass updates the reconciliation counters for one completed pass.
func RecordPass(skipped, clusters int, changes []domain.ChangeOperation, finished time.Time) {
	recordsSkipped.Add(float64(skipped))
	clustersBuilt.Add(float64(clusters))
	for _, ch := range changes {
		changesPlanned.WithLabelValues(string(ch.Type)).Inc()
	}
	if !finished.IsZero() {
		lastReconcileGauge.Set(float64(finished.Unix()))
	}
}
