// Package monitoring provides the service's structured logging and
// Prometheus metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	PredictionsTotal   prometheus.Counter   // Total predictions served
	AdjustedTotal      prometheus.Counter   // Predictions with prevalence adjustment applied
	PredictionLatency  prometheus.Histogram // Scoring pipeline latency in seconds
	PredictionScores   prometheus.Histogram // Distribution of reported probabilities
	RequestsTotal      *prometheus.CounterVec
	AuditWriteFailures prometheus.Counter // Prediction records that could not be stored
}

// NewMetrics registers all collectors with the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates metrics against a custom registry, which
// keeps tests isolated from the global state.
func NewMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lungrisk_predictions_total",
			Help: "Total number of predictions served",
		}),
		AdjustedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lungrisk_predictions_adjusted_total",
			Help: "Predictions where prevalence adjustment was applied",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lungrisk_prediction_duration_seconds",
			Help:    "Scoring pipeline latency",
			Buckets: prometheus.DefBuckets,
		}),
		PredictionScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lungrisk_prediction_probability",
			Help:    "Distribution of reported probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lungrisk_http_requests_total",
			Help: "HTTP requests by path and status",
		}, []string{"path", "status"}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "lungrisk_audit_write_failures_total",
			Help: "Prediction records that could not be written to the audit store",
		}),
	}
}
