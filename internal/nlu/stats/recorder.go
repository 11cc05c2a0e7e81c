// Package stats keeps in-process resolution bookkeeping behind a mutex and
// mirrors the counters into Prometheus.
package stats

import (
	"sync"
	"time"

	"atom-nlu/internal/common/metrics"
	"atom-nlu/internal/models"
)

// Recorder accumulates resolution metrics. The average processing time is a
// running mean so the recorder stays O(1) regardless of traffic.
type Recorder struct {
	mu sync.Mutex

	totalRequests      int64
	successfulRequests int64
	failedRequests     int64
	cacheHits          int64
	timedSamples       int64
	avgProcessingMS    float64
	intentDistribution map[string]int64
	serviceUsage       map[string]int64
	pathDistribution   map[string]int64
}

func NewRecorder() *Recorder {
	return &Recorder{
		intentDistribution: make(map[string]int64),
		serviceUsage:       make(map[string]int64),
		pathDistribution:   make(map[string]int64),
	}
}

// RecordResolution books one completed resolve call exactly once. success is
// false only for terminal fallbacks; rule fallbacks after an adapter failure
// still resolved and count as success.
func (r *Recorder) RecordResolution(intent, path, service string, success bool, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests++
	if success {
		r.successfulRequests++
		metrics.ResolveRequestsTotal.WithLabelValues("success").Inc()
	} else {
		r.failedRequests++
		metrics.ResolveRequestsTotal.WithLabelValues("failure").Inc()
	}

	// Cache hits skip this path, so the mean covers real resolutions only.
	r.timedSamples++
	ms := float64(elapsed.Milliseconds())
	r.avgProcessingMS += (ms - r.avgProcessingMS) / float64(r.timedSamples)

	if intent != "" {
		r.intentDistribution[intent]++
	}
	if service != "" {
		r.serviceUsage[service]++
	}
	if path != "" {
		r.pathDistribution[path]++
		metrics.ResolvePathTotal.WithLabelValues(path).Inc()
		metrics.ResolveDuration.WithLabelValues(path).Observe(elapsed.Seconds())
	}
}

// RecordCacheHit books a resolve call served entirely from cache. Cache hits
// count toward total and successful requests but not toward the processing
// time mean.
func (r *Recorder) RecordCacheHit(intent string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests++
	r.successfulRequests++
	r.cacheHits++
	if intent != "" {
		r.intentDistribution[intent]++
	}
	r.pathDistribution[models.DiagnosticCache]++

	metrics.ResolveRequestsTotal.WithLabelValues("success").Inc()
	metrics.ResolvePathTotal.WithLabelValues(models.DiagnosticCache).Inc()
	metrics.CacheHitsTotal.Inc()
}

// Snapshot returns a deep copy of the current counters.
func (r *Recorder) Snapshot() models.MetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return models.MetricsSnapshot{
		TotalRequests:       r.totalRequests,
		SuccessfulRequests:  r.successfulRequests,
		FailedRequests:      r.failedRequests,
		CacheHits:           r.cacheHits,
		AverageProcessingMS: r.avgProcessingMS,
		IntentDistribution:  copyCounts(r.intentDistribution),
		ServiceUsage:        copyCounts(r.serviceUsage),
		PathDistribution:    copyCounts(r.pathDistribution),
	}
}

// Reset zeroes the in-process counters. Prometheus counters are cumulative
// and unaffected.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRequests = 0
	r.successfulRequests = 0
	r.failedRequests = 0
	r.cacheHits = 0
	r.timedSamples = 0
	r.avgProcessingMS = 0
	r.intentDistribution = make(map[string]int64)
	r.serviceUsage = make(map[string]int64)
	r.pathDistribution = make(map[string]int64)
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
