package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pricing
	PricingCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_calculations_total",
			Help: "Total number of dynamic pricing calculations by outcome",
		},
		[]string{"outcome"}, // "ok", "invalid"
	)

	PricingMultiplier = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_multiplier",
			Help:    "Total multiplier applied by successful pricing calculations",
			Buckets: []float64{0.5, 0.7, 0.8, 0.9, 1, 1.1, 1.2, 1.3, 1.5, 2},
		},
	)

	PricingCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_cache_requests_total",
			Help: "Pricing cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	// Recommendations
	RecommendationGenerateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_generate_duration_seconds",
			Help:    "Duration of recommendation generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationCandidatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_candidates_skipped_total",
			Help: "Candidate hotels dropped because scoring or pricing failed",
		},
	)

	RecommendationInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_interactions_total",
			Help: "Tracked recommendation interactions by action",
		},
		[]string{"action"},
	)

	// API
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status_code"},
	)
)

func RecordPricing(multiplier float64, err error) {
	if err != nil {
		PricingCalculations.WithLabelValues("invalid").Inc()
		return
	}
	PricingCalculations.WithLabelValues("ok").Inc()
	PricingMultiplier.Observe(multiplier)
}

func RecordCacheLookup(hit bool, err error) {
	switch {
	case err != nil:
		PricingCacheRequests.WithLabelValues("error").Inc()
	case hit:
		PricingCacheRequests.WithLabelValues("hit").Inc()
	default:
		PricingCacheRequests.WithLabelValues("miss").Inc()
	}
}

func RecordGenerate(duration time.Duration, skipped int) {
	RecommendationGenerateDuration.Observe(duration.Seconds())
	if skipped > 0 {
		RecommendationCandidatesSkipped.Add(float64(skipped))
	}
}

func RecordInteraction(action string) {
	RecommendationInteractions.WithLabelValues(action).Inc()
}

func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).Observe(duration.Seconds())
}
