// Package metrics defines the Prometheus instruments for the response
// pipeline. All instruments are registered on an injected registry so
// tests can use an isolated one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every instrument the pipeline records to.
type Metrics struct {
	// TriggersTotal counts trigger detections by tier.
	TriggersTotal *prometheus.CounterVec
	// ResponsesTotal counts delivered replies by path (ai, fallback).
	ResponsesTotal *prometheus.CounterVec
	// DroppedTotal counts silently dropped messages by reason.
	DroppedTotal *prometheus.CounterVec
	// ReactionsTotal counts emoji reactions sent.
	ReactionsTotal prometheus.Counter
	// CompletionSeconds observes completion-call latency.
	CompletionSeconds prometheus.Histogram
	// TrackedChannels and TrackedUsers mirror the context tracker.
	TrackedChannels prometheus.Gauge
	TrackedUsers    prometheus.Gauge
}

// Drop reasons used with DroppedTotal.
const (
	DropBotAuthor     = "bot_author"
	DropCooldown      = "cooldown"
	DropHourlyCap     = "hourly_cap"
	DropErrorRecovery = "error_recovery"
)

// Response paths used with ResponsesTotal.
const (
	PathAI       = "ai"
	PathFallback = "fallback"
)

// New registers all instruments on reg and returns the bundle.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TriggersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "triggers_total",
			Help:      "Trigger detections by tier.",
		}, []string{"tier"}),
		ResponsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "responses_total",
			Help:      "Delivered replies by path.",
		}, []string{"path"}),
		DroppedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "dropped_total",
			Help:      "Messages dropped without a reply, by reason.",
		}, []string{"reason"}),
		ReactionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "reactions_total",
			Help:      "Emoji reactions sent.",
		}),
		CompletionSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scout",
			Name:      "completion_seconds",
			Help:      "Completion-call latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		TrackedChannels: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "scout",
			Name:      "tracked_channels",
			Help:      "Channels with retained activity.",
		}),
		TrackedUsers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "scout",
			Name:      "tracked_users",
			Help:      "Users with retained activity.",
		}),
	}
}
