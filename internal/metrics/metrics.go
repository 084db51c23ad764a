// Package metrics exposes the bridge's Prometheus collectors via
// promhttp.Handler() at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

var (
	StoreTasksDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_tasks_dropped_total",
		Help: "Async store tasks dropped because the worker pool queue was saturated.",
	})

	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_sent_total",
		Help: "Messages accepted by the send pipeline, by outcome status.",
	}, []string{"status"})

	ExclusionHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exclusion_rule_hits_total",
		Help: "Messages excluded by the exclusion engine.",
	})

	TransformationAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transformation_attempts_total",
		Help: "Transformation pipeline attempts, by transformation type and terminal status.",
	}, []string{"type", "status"})

	DeadLetterCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transformation_dead_letters_total",
		Help: "Messages published to the transformation dead-letter destination.",
	})
)

func init() {
	prometheus.MustRegister(StoreTasksDropped, MessagesSent, ExclusionHits, TransformationAttempts, DeadLetterCount)
}

// Handler returns the HTTP handler serving the registered collectors.
func Handler() http.Handler {
	return promhttp.Handler()
}
