package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_guardrail_evaluations_total",
			Help: "Guardrail evaluations by resulting action and degradation state.",
		},
		[]string{"action", "degraded"},
	)

	evaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "partsdesk_guardrail_evaluation_duration_seconds",
			Help:    "Wall time of one summarize-evaluate-decide-mitigate pass.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	verdictCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "partsdesk_guardrail_verdict_cache_hits_total",
			Help: "Evaluations short-circuited by the verdict cache.",
		},
	)
)

func ObserveEvaluation(action string, degraded bool, elapsed time.Duration) {
	degradedLabel := "false"
	if degraded {
		degradedLabel = "true"
	}
	evaluationsTotal.WithLabelValues(action, degradedLabel).Inc()
	evaluationDuration.Observe(elapsed.Seconds())
}

func ObserveVerdictCacheHit() {
	verdictCacheHits.Inc()
}
