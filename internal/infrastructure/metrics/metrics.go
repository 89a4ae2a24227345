package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Update run metrics
	UpdateRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valutatrade_update_runs_total",
			Help: "The total number of rate update runs",
		},
		[]string{"status"},
	)

	UpdateRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "valutatrade_update_run_duration_seconds",
			Help:    "The rate update run latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valutatrade_source_fetches_total",
			Help: "The total number of quote source fetches",
		},
		[]string{"source", "status"},
	)

	PairsUpdated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "valutatrade_pairs_updated",
			Help: "The number of pairs changed by the last update run",
		},
	)

	// Rate resolution metrics
	RateLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valutatrade_rate_lookups_total",
			Help: "The total number of rate lookups by outcome",
		},
		[]string{"outcome"},
	)

	// Ledger metrics
	LedgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valutatrade_ledger_operations_total",
			Help: "The total number of ledger operations",
		},
		[]string{"operation", "status"},
	)
)

// RecordUpdateRun records one update run outcome
func RecordUpdateRun(status string, durationSeconds float64, updated int) {
	UpdateRunsTotal.WithLabelValues(status).Inc()
	UpdateRunDuration.Observe(durationSeconds)
	if status == "success" {
		PairsUpdated.Set(float64(updated))
	}
}

// RecordSourceFetch records one quote source fetch outcome
func RecordSourceFetch(source, status string) {
	SourceFetchesTotal.WithLabelValues(source, status).Inc()
}

// RecordRateLookup records one rate lookup outcome
// (identity, direct, reverse, miss)
func RecordRateLookup(outcome string) {
	RateLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordLedgerOperation records one ledger operation outcome
func RecordLedgerOperation(operation, status string) {
	LedgerOperationsTotal.WithLabelValues(operation, status).Inc()
}
