package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cvmatch"

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of keyword queries",
		},
		[]string{"algorithm", "status"}, // status: "ok" or the envelope error
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent scanning the corpus for one query",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"algorithm"},
	)

	SearchScannedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_scanned_records_total",
			Help:      "Total number of records visited by queries",
		},
		[]string{"algorithm"},
	)

	TextCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "text_cache_total",
			Help:      "Text cache lookups by result",
		},
		[]string{"result"}, // "hit" / "miss" / "failed"
	)

	ExtractDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extract_duration_seconds",
			Help:      "Document text extraction duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"kind"}, // file extension
	)
)

var registerOnce sync.Once

// Register registers every cvmatch collector with the default registry.
// Must be called from main; repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchQueriesTotal,
			SearchDuration,
			SearchScannedRecordsTotal,
			TextCacheTotal,
			ExtractDuration,
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
			AuthRejectionsTotal,
		)
	})
}
