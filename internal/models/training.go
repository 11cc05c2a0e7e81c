package models

import "time"

// TrainingExample is one append-only feedback record. Past entries are never
// mutated; retraining replays the full log.
type TrainingExample struct {
	Message       string                 `json:"message"`
	Intent        string                 `json:"intent"`
	Entities      map[string]interface{} `json:"entities,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	Platforms     []string               `json:"platforms,omitempty"`
	CrossPlatform bool                   `json:"crossPlatform,omitempty"`
}

// TrainError reports a single failed example inside a partially successful
// training batch.
type TrainError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
	Intent  string `json:"intent"`
	Reason  string `json:"reason"`
}

// TrainResult carries partial-success semantics: the batch continues past
// per-example errors.
type TrainResult struct {
	TrainedCount int          `json:"trainedCount"`
	Errors       []TrainError `json:"errors,omitempty"`
}

// MetricsSnapshot is a point-in-time copy of the resolver's bookkeeping.
type MetricsSnapshot struct {
	TotalRequests       int64            `json:"totalRequests"`
	SuccessfulRequests  int64            `json:"successfulRequests"`
	FailedRequests      int64            `json:"failedRequests"`
	CacheHits           int64            `json:"cacheHits"`
	AverageProcessingMS float64          `json:"averageProcessingMs"`
	IntentDistribution  map[string]int64 `json:"intentDistribution"`
	ServiceUsage        map[string]int64 `json:"serviceUsage"`
	PathDistribution    map[string]int64 `json:"pathDistribution"`
}
