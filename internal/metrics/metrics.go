// Package metrics defines the Prometheus instrumentation for indexing and
// search. Registration is explicit so embedding applications keep control of
// their registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "queries_total",
			Help:      "Total number of search queries by outcome",
		},
		[]string{"status"}, // "served" / "rate_limited" / "banned" / "unauthorized" / "degraded"
	)

	RecordsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "records_indexed_total",
			Help:      "Total records accepted into the index",
		},
		[]string{"kind"},
	)

	RecordsDuplicateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "records_duplicate_total",
			Help:      "Total records rejected as duplicates",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mediadex",
			Name:      "search_duration_seconds",
			Help:      "End to end search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SnapshotFlushTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "snapshot_flush_total",
			Help:      "State snapshot flushes by result",
		},
		[]string{"result"}, // "ok" / "error"
	)
)

var registered bool

// Register registers all metrics with the default registry. Must be called
// once from the application entry point.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(RecordsIndexedTotal)
	prometheus.MustRegister(RecordsDuplicateTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SnapshotFlushTotal)
	registered = true
}
