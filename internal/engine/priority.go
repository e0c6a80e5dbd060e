package engine

import (
	"fmt"

	"github.com/fieldstack/vendormatch/internal/config"
)

// PriorityAdjuster reweights the availability and responsiveness sub-scores
// for time-sensitive requests, then re-clamps the total to [0, 100]. Scores
// exceeding 100 pre-clamp under an urgent multiplier are expected.
type PriorityAdjuster struct {
	multipliers config.UrgencyMultipliers
}

func NewPriorityAdjuster(multipliers config.UrgencyMultipliers) *PriorityAdjuster {
	return &PriorityAdjuster{multipliers: multipliers}
}

func (p *PriorityAdjuster) multiplier(u Urgency) float64 {
	switch u {
	case UrgencyUrgent:
		return p.multipliers.Urgent
	case UrgencyHigh:
		return p.multipliers.High
	default:
		return 1.0
	}
}

// Adjust applies the urgency multiplier in place, after base scoring and
// before the final summation.
func (p *PriorityAdjuster) Adjust(b *ScoreBreakdown, urgency Urgency) {
	m := p.multiplier(urgency)
	if m != 1.0 {
		b.Scores.Availability *= m
		b.Scores.Responsiveness *= m
		b.Reasons = append(b.Reasons,
			fmt.Sprintf("%s request: availability and responsiveness weighted ×%.1f", urgency, m))
	}
	b.TotalScore = round2(clamp(b.Scores.Sum(), 0, 100))
}
