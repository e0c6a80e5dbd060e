package engine

import (
	"fmt"
	"math"

	"github.com/fieldstack/vendormatch/internal/config"
	"github.com/fieldstack/vendormatch/internal/store"
)

// SubScores is the fixed-shape factor table: one named field per factor so
// the weighting table is complete by construction.
type SubScores struct {
	Rating         float64 `json:"rating"`
	Availability   float64 `json:"availability"`
	Specialization float64 `json:"specialization"`
	Workload       float64 `json:"workload"`
	Performance    float64 `json:"performance"`
	Responsiveness float64 `json:"responsiveness"`
}

// Sum returns the current total across all six factors.
func (s SubScores) Sum() float64 {
	return s.Rating + s.Availability + s.Specialization +
		s.Workload + s.Performance + s.Responsiveness
}

// ScoreBreakdown is the per-provider scoring output: the six sub-scores, the
// clamped total, and the ordered reasoning strings operators use to justify
// an assignment decision.
type ScoreBreakdown struct {
	Provider         *store.Provider `json:"provider"`
	TotalScore       float64         `json:"total_score"`
	Scores           SubScores       `json:"scores"`
	Factors          []FactorResult  `json:"factors"`
	Reasons          []string        `json:"reasons"`
	CategoryFallback bool            `json:"category_fallback"`
}

// FactorScorer converts a candidate context into a base (pre-adjustment)
// score breakdown. Each factor is computed independently and bounded by its
// configured maximum.
type FactorScorer struct {
	maxima config.FactorMaxima
}

func NewFactorScorer(maxima config.FactorMaxima) *FactorScorer {
	return &FactorScorer{maxima: maxima}
}

// ScoreCandidate computes the six weighted factors for one provider.
func (s *FactorScorer) ScoreCandidate(cc *CandidateContext) *ScoreBreakdown {
	factors := []FactorResult{
		RatingFactor(cc),
		AvailabilityFactor(cc),
		SpecializationFactor(cc),
		WorkloadFactor(cc),
		PerformanceFactor(cc),
		ResponsivenessFactor(cc),
	}

	maxima := []float64{
		s.maxima.Rating,
		s.maxima.Availability,
		s.maxima.Specialization,
		s.maxima.Workload,
		s.maxima.Performance,
		s.maxima.Responsiveness,
	}

	breakdown := &ScoreBreakdown{
		Provider:         cc.Provider,
		CategoryFallback: cc.CategoryFallback,
	}
	for i := range factors {
		factors[i].Max = maxima[i]
		factors[i].Points = factors[i].Score * maxima[i]
		breakdown.Reasons = append(breakdown.Reasons, factors[i].Reason)
	}
	breakdown.Factors = factors

	breakdown.Scores = SubScores{
		Rating:         factors[0].Points,
		Availability:   factors[1].Points,
		Specialization: factors[2].Points,
		Workload:       factors[3].Points,
		Performance:    factors[4].Points,
		Responsiveness: factors[5].Points,
	}
	breakdown.TotalScore = round2(breakdown.Scores.Sum())

	if cc.CategoryFallback {
		breakdown.Reasons = append(breakdown.Reasons,
			fmt.Sprintf("no provider matched category %q; ranked from all active providers", cc.Criteria.Category))
	}
	if note := deadlineNote(cc); note != "" {
		breakdown.Reasons = append(breakdown.Reasons, note)
	}

	return breakdown
}

// deadlineNote flags a schedule risk when the caller supplied a required-by
// date and the provider's historical completion time would overrun it. It is
// advisory only and never changes a score.
func deadlineNote(cc *CandidateContext) string {
	if cc.Criteria.RequiredBy == nil || cc.Profile.AverageCompletionDays == 0 {
		return ""
	}
	// Evaluated against the request deadline relative to assignment time;
	// the assignment timestamp is taken as the profile's evaluation time.
	remaining := cc.Criteria.RequiredBy.Sub(cc.EvaluatedAt).Hours() / hoursPerDay
	if cc.Profile.AverageCompletionDays > remaining {
		return fmt.Sprintf("schedule risk: averages %.1f days to complete, %.1f days until required-by date",
			cc.Profile.AverageCompletionDays, remaining)
	}
	return ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
