// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SynthesisCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthesis_generations_completed_total",
			Help: "Total number of site generations completed",
		},
		[]string{"outcome"},
	)

	SynthesisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "synthesis_generation_duration_seconds",
			Help:    "Duration of site generation in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	ImageFallbackTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthesis_image_fallback_tier_total",
			Help: "Which tier resolved each image slot",
		},
		[]string{"category", "tier"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_webhook_events_total",
			Help: "Total webhook events by outcome",
		},
		[]string{"outcome"},
	)

	FulfillmentStepsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_steps_failed_total",
			Help: "Total fulfillment step failures by step",
		},
		[]string{"step"},
	)

	DeploymentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_deployments_created_total",
			Help: "Total deployments pushed to the hosting platform",
		},
	)
)
