package engine

import (
	"fmt"
	"time"

	"github.com/fieldstack/vendormatch/internal/store"
)

// FactorResult captures one factor's contribution to a candidate's score.
// Score is normalized to [0, 1] and multiplied by the factor's configured
// maximum when the breakdown is assembled.
type FactorResult struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
	Reason string  `json:"reason"`
}

// CandidateContext bundles all inputs needed to score a single provider
// against a request.
type CandidateContext struct {
	Provider     *store.Provider
	Profile      *PerformanceProfile
	Availability *store.AvailabilityWindow // nil means no covering window
	Criteria     Criteria
	EvaluatedAt  time.Time

	// CategoryFallback is set when the selector widened the pool past the
	// requested category; it is surfaced on every breakdown so operators
	// know specialization was not honored.
	CategoryFallback bool
}

// --- Individual factor calculators ---

// RatingFactor scales the provider's 0–5 average rating linearly.
func RatingFactor(cc *CandidateContext) FactorResult {
	rating := clamp(cc.Provider.Rating, 0, 5)
	score := rating / 5.0

	var reason string
	switch {
	case rating == 0:
		reason = "unrated provider"
	case rating >= 4.5:
		reason = fmt.Sprintf("excellent rating (%.1f/5)", rating)
	case rating >= 3.5:
		reason = fmt.Sprintf("good rating (%.1f/5)", rating)
	case rating >= 2.5:
		reason = fmt.Sprintf("fair rating (%.1f/5)", rating)
	default:
		reason = fmt.Sprintf("low rating (%.1f/5)", rating)
	}
	return FactorResult{Name: "rating", Score: score, Reason: reason}
}

// AvailabilityFactor reads the current declared window; no covering window
// means available.
func AvailabilityFactor(cc *CandidateContext) FactorResult {
	if cc.Availability == nil {
		return FactorResult{Name: "availability", Score: 1.0, Reason: "no declared schedule, assumed available"}
	}
	switch cc.Availability.State {
	case store.AvailabilityAvailable:
		return FactorResult{Name: "availability", Score: 1.0, Reason: "declared available"}
	case store.AvailabilityPartiallyOccupied:
		return FactorResult{Name: "availability", Score: 0.6, Reason: "partially occupied"}
	default:
		return FactorResult{Name: "availability", Score: 0.0, Reason: "declared unavailable"}
	}
}

// SpecializationFactor applies the substring match rule in either direction.
// A miss still earns a third of the factor: a generalist can do the work,
// just with less confidence.
func SpecializationFactor(cc *CandidateContext) FactorResult {
	if categoryMatches(cc.Provider.Category, cc.Criteria.Category) {
		return FactorResult{
			Name:   "specialization",
			Score:  1.0,
			Reason: fmt.Sprintf("specialization matches requested category %q", cc.Criteria.Category),
		}
	}
	return FactorResult{
		Name:   "specialization",
		Score:  1.0 / 3.0,
		Reason: fmt.Sprintf("%s provider outside requested category %q", cc.Provider.Category, cc.Criteria.Category),
	}
}

// WorkloadFactor steps down as the provider's open order count grows.
// Normalized steps correspond to 15/13/11/9/6/3/0 points at the default max.
func WorkloadFactor(cc *CandidateContext) FactorResult {
	pending := cc.Profile.PendingCount

	var score float64
	var reason string
	switch {
	case pending == 0:
		score, reason = 1.0, "no pending jobs"
	case pending == 1:
		score, reason = 13.0/15.0, "1 pending job"
	case pending == 2:
		score, reason = 11.0/15.0, "2 pending jobs"
	case pending == 3:
		score, reason = 9.0/15.0, "3 pending jobs"
	case pending <= 5:
		score, reason = 6.0/15.0, fmt.Sprintf("moderate workload (%d pending)", pending)
	case pending <= 7:
		score, reason = 3.0/15.0, fmt.Sprintf("high workload (%d pending)", pending)
	default:
		score, reason = 0.0, fmt.Sprintf("fully loaded (%d pending)", pending)
	}
	return FactorResult{Name: "workload", Score: score, Reason: reason}
}

// PerformanceFactor combines on-time rate (up to 47% of the factor), recent
// review quality, and the trend bonus. The parts can sum marginally past 1.0
// (improving trend with a perfect record), so the result is clamped.
func PerformanceFactor(cc *CandidateContext) FactorResult {
	p := cc.Profile

	onTime := 0.47 * (p.OnTimeRate / 100.0)
	reviews := (p.AverageReviewRating / 5.0) * (5.0 / 15.0)

	var bonus float64
	switch p.Trend {
	case TrendImproving:
		bonus = 3.0 / 15.0
	case TrendStable:
		bonus = 1.5 / 15.0
	}

	score := clamp(onTime+reviews+bonus, 0, 1)

	var reason string
	if p.CompletedCount == 0 && p.AverageReviewRating == 0 {
		reason = "no completed history in window"
	} else {
		reason = fmt.Sprintf("%.0f%% on-time, review average %.1f/5, %s trend",
			p.OnTimeRate, p.AverageReviewRating, p.Trend)
	}
	return FactorResult{Name: "performance", Score: score, Reason: reason}
}

// ResponsivenessFactor steps by average response hours. Without any response
// sample the factor defaults to a neutral mid-tier rather than the top tier a
// zero average would imply; measured and missing data must stay distinguishable.
func ResponsivenessFactor(cc *CandidateContext) FactorResult {
	p := cc.Profile
	if !p.ResponseSampled {
		return FactorResult{Name: "responsiveness", Score: 0.5, Reason: "no response history, assumed moderate"}
	}

	hours := p.AverageResponseHours
	var score float64
	var reason string
	switch {
	case hours < 1:
		score, reason = 1.0, "typically responds within the hour"
	case hours < 2:
		score, reason = 0.9, fmt.Sprintf("fast response (avg %.1fh)", hours)
	case hours < 4:
		score, reason = 0.7, fmt.Sprintf("responds within hours (avg %.1fh)", hours)
	case hours < 8:
		score, reason = 0.5, fmt.Sprintf("same-day response (avg %.1fh)", hours)
	case hours < 24:
		score, reason = 0.3, fmt.Sprintf("slow response (avg %.1fh)", hours)
	default:
		score, reason = 0.1, fmt.Sprintf("very slow response (avg %.0fh)", hours)
	}
	return FactorResult{Name: "responsiveness", Score: score, Reason: reason}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
