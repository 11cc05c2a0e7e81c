// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResolveRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_resolve_requests_total",
			Help: "Total number of resolve requests by outcome",
		},
		[]string{"outcome"},
	)

	ResolvePathTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_resolve_path_total",
			Help: "Resolve requests by resolution path (diagnostic tag)",
		},
		[]string{"path"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nlu_resolve_duration_seconds",
			Help: "Duration of resolve requests in seconds",
		},
		[]string{"path"},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nlu_cache_hits_total",
			Help: "Resolve requests served from the response cache",
		},
	)

	GenerativeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_generative_calls_total",
			Help: "Generative classifier calls by result",
		},
		[]string{"result"},
	)

	TrainingExamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_training_examples_total",
			Help: "Training examples processed by result",
		},
		[]string{"result"},
	)
)
