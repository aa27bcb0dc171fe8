// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SuggestionOutcomes counts generator invocations by outcome
	// (ok, empty, malformed, upstream_error).
	SuggestionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emerge_suggestion_outcomes_total",
		Help: "Goal suggestion generator results by outcome",
	}, []string{"outcome"})

	// RefreshResults counts refresh and append requests by mode and result.
	RefreshResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emerge_goal_refresh_total",
		Help: "Goal refresh requests by mode and result",
	}, []string{"mode", "result"})

	// GoalOperations counts goal mutations.
	GoalOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emerge_goal_operations_total",
		Help: "Goal mutations by operation",
	}, []string{"operation"})

	// UpstreamLatency records latency of calls to external services.
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emerge_upstream_latency_seconds",
		Help:    "Latency of generative and video service calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "result"})

	// DatabaseQueryLatency records store query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emerge_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EventsPublished counts lifecycle events handed to the broker.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emerge_events_published_total",
		Help: "Lifecycle events published by type and result",
	}, []string{"type", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ObserveUpstream records the latency of an external call started at start.
func ObserveUpstream(service string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamLatency.WithLabelValues(service, result).Observe(time.Since(start).Seconds())
}
