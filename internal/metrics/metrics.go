package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendormatch_recommendations_total",
			Help: "Total recommendation calls served, by request urgency",
		},
		[]string{"urgency"},
	)

	CategoryFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendormatch_category_fallbacks_total",
			Help: "Recommendation calls that widened past the requested category",
		},
	)

	CandidateFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendormatch_candidate_fetch_failures_total",
			Help: "Candidates excluded from a ranking because their history read failed",
		},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vendormatch_ranking_duration_seconds",
			Help:    "Wall time of a full recommendation call",
			Buckets: prometheus.DefBuckets,
		},
	)

	CandidatesEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vendormatch_candidates_evaluated",
			Help:    "Candidates scored per recommendation call",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
)
