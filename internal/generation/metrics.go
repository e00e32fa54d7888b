package generation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/models"
)

// Outcome labels for the generations counter.
const (
	outcomeProvider = "provider"
	outcomeFallback = "fallback"
)

var (
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glimpse",
		Subsystem: "generation",
		Name:      "artifacts_total",
		Help:      "Generation artifacts produced, by mode and outcome.",
	}, []string{"mode", "outcome"})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glimpse",
		Subsystem: "generation",
		Name:      "rate_limited_total",
		Help:      "Generation requests rejected by a rate limit tier.",
	}, []string{"tier"})

	providerCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "glimpse",
		Subsystem: "generation",
		Name:      "provider_call_seconds",
		Help:      "Latency of AI provider calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "success"})
)

func observeGeneration(mode models.Mode, outcome string) {
	generationsTotal.WithLabelValues(string(mode), outcome).Inc()
}

func observeRateLimited(tier string) {
	rateLimitedTotal.WithLabelValues(tier).Inc()
}

func observeProviderCall(provider string, elapsed time.Duration, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	providerCallDuration.WithLabelValues(provider, label).Observe(elapsed.Seconds())
}
