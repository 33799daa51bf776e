// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesAnswered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_queries_answered_total",
			Help: "Total number of queries answered, by analytic branch",
		},
		[]string{"branch"},
	)

	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_queries_failed_total",
			Help: "Total number of queries that failed",
		},
		[]string{"error_code"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bi_query_duration_seconds",
			Help:    "Duration of query processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"branch"},
	)

	BoardFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bi_board_fetch_duration_seconds",
			Help: "Duration of board service fetches in seconds",
		},
		[]string{"board"},
	)

	BoardRowsFetched = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bi_board_rows_fetched",
			Help: "Rows extracted from the most recent fetch of each board",
		},
		[]string{"board"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_llm_requests_total",
			Help: "Total number of language model requests",
		},
		[]string{"status"},
	)
)
