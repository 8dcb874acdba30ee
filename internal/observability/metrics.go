// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	TransactionsIngested prometheus.Counter
	RowsDropped          *prometheus.CounterVec

	// Aggregation metrics
	OrdersAggregated prometheus.Counter
	OrdersFiltered   *prometheus.CounterVec

	// Feature metrics
	CustomersFeatured prometheus.Counter
	BaselineExcluded  prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "retail_clv"
	}

	return &Metrics{
		TransactionsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_ingested_total",
			Help:      "Total number of raw transactions stored",
		}),
		RowsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_dropped_total",
			Help:      "Total number of source rows dropped by reason",
		}, []string{"reason"}),

		OrdersAggregated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "orders_aggregated_total",
			Help:      "Total number of daily orders produced by aggregation",
		}),
		OrdersFiltered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "orders_filtered_total",
			Help:      "Total number of daily orders dropped by the validity filter, by reason",
		}, []string{"reason"}),

		CustomersFeatured: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "customers_featured_total",
			Help:      "Total number of customer feature records produced",
		}),
		BaselineExcluded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "baseline",
			Name:      "customers_excluded_total",
			Help:      "Total number of customers excluded from baseline scoring",
		}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline phase runs by status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline phase duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"phase"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTransactionsIngested adds to the ingested transactions counter.
func RecordTransactionsIngested(n int) {
	DefaultMetrics.TransactionsIngested.Add(float64(n))
}

// RecordRowsDropped adds to the dropped rows counter for a reason.
func RecordRowsDropped(reason string, n int) {
	if n > 0 {
		DefaultMetrics.RowsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordOrdersAggregated adds to the aggregated orders counter.
func RecordOrdersAggregated(n int) {
	DefaultMetrics.OrdersAggregated.Add(float64(n))
}

// RecordOrdersFiltered adds to the filtered orders counter for a reason.
func RecordOrdersFiltered(reason string, n int) {
	if n > 0 {
		DefaultMetrics.OrdersFiltered.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordCustomersFeatured adds to the featured customers counter.
func RecordCustomersFeatured(n int) {
	DefaultMetrics.CustomersFeatured.Add(float64(n))
}

// RecordBaselineExcluded adds to the baseline exclusion counter.
func RecordBaselineExcluded(n int) {
	DefaultMetrics.BaselineExcluded.Add(float64(n))
}

// RecordPipelineRun records a pipeline phase run.
func RecordPipelineRun(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
