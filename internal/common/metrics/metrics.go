// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_total",
			Help: "Total number of risk assessments served",
		},
		[]string{"risk_level", "model_used"},
	)

	AssessmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assessment_duration_seconds",
			Help: "Duration of assessment request handling in seconds",
		},
		[]string{"status"},
	)

	PredictionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Upstream prediction calls by outcome",
		},
		[]string{"outcome"},
	)

	PredictionCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_cache_events_total",
			Help: "Prediction cache lookups by result",
		},
		[]string{"result"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Rejected assessment requests by field",
		},
		[]string{"field"},
	)
)
