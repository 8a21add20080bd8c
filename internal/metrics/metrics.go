package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Settlement groups the engine's operational metrics.
type Settlement struct {
	Runs                 *prometheus.CounterVec
	PredictionsScored    prometheus.Counter
	Duration             prometheus.Histogram
	CacheKeysInvalidated prometheus.Counter
}

func NewSettlement(reg prometheus.Registerer) *Settlement {
	factory := promauto.With(reg)
	return &Settlement{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_runs_total",
			Help: "Settlement attempts by terminal result.",
		}, []string{"result"}),
		PredictionsScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "settlement_predictions_scored_total",
			Help: "Predictions awarded points across all settlements.",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_duration_seconds",
			Help:    "Wall time of successful settlement attempts.",
			Buckets: prometheus.DefBuckets,
		}),
		CacheKeysInvalidated: factory.NewCounter(prometheus.CounterOpts{
			Name: "settlement_cache_keys_invalidated_total",
			Help: "Redis keys deleted by the post-commit notifier.",
		}),
	}
}
