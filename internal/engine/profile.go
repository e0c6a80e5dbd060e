package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fieldstack/vendormatch/internal/store"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Trend classification compares the last 30 days of reviews against the 60
// days before them; a shift beyond this threshold in either direction leaves
// "stable".
const (
	trendRecentDays = 30
	trendPriorDays  = 60
	trendThreshold  = 0.3
	hoursPerDay     = 24.0
)

// PerformanceProfile aggregates a provider's historical record over the
// lookback window. A provider with no history gets the zero profile with
// Trend stable; that is a valid result, not an error.
type PerformanceProfile struct {
	AverageCompletionDays float64 `json:"average_completion_days"`
	OnTimeRate            float64 `json:"on_time_rate"` // percent, 0–100
	AverageResponseHours  float64 `json:"average_response_hours"`
	CompletedCount        int     `json:"completed_count"`
	PendingCount          int     `json:"pending_count"`
	AverageReviewRating   float64 `json:"average_review_rating"`
	Trend                 Trend   `json:"trend"`

	// ResponseSampled is false when no work order carried both an
	// assignment and a start timestamp; AverageResponseHours is then 0 and
	// the responsiveness factor falls back to a neutral default.
	ResponseSampled bool `json:"response_sampled"`
}

// Aggregator builds performance profiles from work-order and review history.
// Acceptance timestamps are not tracked yet, so response time is derived from
// assignment→actual-start as a documented proxy.
type Aggregator struct {
	store        store.Store
	lookbackDays int
	logger       *slog.Logger
}

func NewAggregator(s store.Store, lookbackDays int, logger *slog.Logger) *Aggregator {
	return &Aggregator{store: s, lookbackDays: lookbackDays, logger: logger}
}

// BuildProfile computes the rolling-window profile for one provider as of
// the given evaluation time.
func (a *Aggregator) BuildProfile(ctx context.Context, providerID uuid.UUID, now time.Time) (*PerformanceProfile, error) {
	since := now.AddDate(0, 0, -a.lookbackDays)

	orders, err := a.store.ListWorkOrdersSince(ctx, providerID, since)
	if err != nil {
		return nil, err
	}
	reviews, err := a.store.ListReviewsSince(ctx, providerID, since)
	if err != nil {
		return nil, err
	}
	pending, err := a.store.CountPendingWorkOrders(ctx, providerID)
	if err != nil {
		return nil, err
	}

	profile := &PerformanceProfile{
		PendingCount: pending,
		Trend:        TrendStable,
	}

	var (
		completionDaysSum float64
		completionSamples int
		onTimeCount       int
		estimatedCount    int
		responseHoursSum  float64
		responseSamples   int
	)

	for _, wo := range orders {
		if wo.StartedAt != nil {
			responseHoursSum += wo.StartedAt.Sub(wo.AssignedAt).Hours()
			responseSamples++
		}
		if wo.Status != store.StatusCompleted || wo.CompletedAt == nil {
			continue
		}
		profile.CompletedCount++
		if wo.StartedAt != nil {
			completionDaysSum += wo.CompletedAt.Sub(*wo.StartedAt).Hours() / hoursPerDay
			completionSamples++
		}
		// Orders without an estimate are excluded from the on-time denominator.
		if wo.EstimatedCompletionAt != nil {
			estimatedCount++
			if !wo.CompletedAt.After(*wo.EstimatedCompletionAt) {
				onTimeCount++
			}
		}
	}

	if completionSamples > 0 {
		profile.AverageCompletionDays = completionDaysSum / float64(completionSamples)
	}
	if estimatedCount > 0 {
		profile.OnTimeRate = float64(onTimeCount) / float64(estimatedCount) * 100
	}
	if responseSamples > 0 {
		profile.AverageResponseHours = responseHoursSum / float64(responseSamples)
		profile.ResponseSampled = true
	}

	var ratingSum int
	for _, r := range reviews {
		ratingSum += r.Rating
	}
	if len(reviews) > 0 {
		profile.AverageReviewRating = float64(ratingSum) / float64(len(reviews))
	}

	profile.Trend = reviewTrend(reviews, now)
	return profile, nil
}

// reviewTrend compares the mean rating of the most recent 30 days against the
// preceding 60. Either sub-population being empty yields stable.
func reviewTrend(reviews []*store.Review, now time.Time) Trend {
	recentCutoff := now.AddDate(0, 0, -trendRecentDays)
	priorCutoff := recentCutoff.AddDate(0, 0, -trendPriorDays)

	var recentSum, priorSum int
	var recentN, priorN int
	for _, r := range reviews {
		switch {
		case !r.CreatedAt.Before(recentCutoff):
			recentSum += r.Rating
			recentN++
		case !r.CreatedAt.Before(priorCutoff):
			priorSum += r.Rating
			priorN++
		}
	}
	if recentN == 0 || priorN == 0 {
		return TrendStable
	}

	delta := float64(recentSum)/float64(recentN) - float64(priorSum)/float64(priorN)
	switch {
	case delta > trendThreshold:
		return TrendImproving
	case delta < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}
