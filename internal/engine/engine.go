// Package engine ranks candidate service providers against a work request.
// It is a pure read-side consumer of the store: selection, per-candidate
// aggregation and scoring, priority adjustment, then a deterministic sort.
package engine

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldstack/vendormatch/internal/config"
	"github.com/fieldstack/vendormatch/internal/metrics"
	"github.com/fieldstack/vendormatch/internal/store"
)

// Engine drives the recommendation pipeline. It holds no per-call state and
// is safe for concurrent use across tenants and requests.
type Engine struct {
	store        store.Store
	aggregator   *Aggregator
	scorer       *FactorScorer
	adjuster     *PriorityAdjuster
	defaultLimit int
	logger       *slog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

func New(s store.Store, cfg config.ScoringConfig, logger *slog.Logger) *Engine {
	return &Engine{
		store:        s,
		aggregator:   NewAggregator(s, cfg.LookbackDays, logger),
		scorer:       NewFactorScorer(cfg.Maxima),
		adjuster:     NewPriorityAdjuster(cfg.Multipliers),
		defaultLimit: cfg.DefaultLimit,
		logger:       logger,
		now:          time.Now,
	}
}

// Recommend returns the top candidates for the request, sorted descending by
// total score with ties broken by provider ID ascending. An empty tenant
// population yields an empty list, not an error; only invalid criteria fail.
func (e *Engine) Recommend(ctx context.Context, criteria Criteria, tenantID string, limit int) ([]*ScoreBreakdown, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}
	start := time.Now()
	defer func() {
		metrics.RankingDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.RecommendationsTotal.WithLabelValues(string(criteria.Urgency)).Inc()

	providers, err := e.store.ListActiveProviders(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	selection := SelectCandidates(providers, criteria.Category)
	if len(selection.Candidates) == 0 {
		e.logger.Info("no eligible providers", "tenant", tenantID, "category", criteria.Category)
		return []*ScoreBreakdown{}, nil
	}
	if selection.CategoryFallback {
		metrics.CategoryFallbacks.Inc()
		e.logger.Info("category fallback engaged",
			"tenant", tenantID, "category", criteria.Category, "candidates", len(selection.Candidates))
	}
	metrics.CandidatesEvaluated.Observe(float64(len(selection.Candidates)))

	now := e.now()

	// Candidates are independent: each goroutine reads only its own
	// provider's history and writes only its own result slot. A failed read
	// excludes that candidate without touching the rest.
	results := make([]*ScoreBreakdown, len(selection.Candidates))
	var wg sync.WaitGroup
	for i, p := range selection.Candidates {
		wg.Add(1)
		go func(i int, p *store.Provider) {
			defer wg.Done()
			b, err := e.scoreCandidate(ctx, p, criteria, selection.CategoryFallback, now)
			if err != nil {
				metrics.CandidateFetchFailures.Inc()
				e.logger.Warn("excluding candidate, history read failed",
					"provider_id", p.ID, "provider", p.Name, "error", err)
				return
			}
			results[i] = b
		}(i, p)
	}
	wg.Wait()

	ranked := make([]*ScoreBreakdown, 0, len(results))
	for _, b := range results {
		if b != nil {
			ranked = append(ranked, b)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].Provider.ID.String() < ranked[j].Provider.ID.String()
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// scoreCandidate runs the per-candidate leg of the pipeline: aggregate,
// score, adjust.
func (e *Engine) scoreCandidate(ctx context.Context, p *store.Provider, criteria Criteria, fallback bool, now time.Time) (*ScoreBreakdown, error) {
	profile, err := e.aggregator.BuildProfile(ctx, p.ID, now)
	if err != nil {
		return nil, err
	}
	window, err := e.store.CurrentAvailability(ctx, p.ID, now)
	if err != nil {
		return nil, err
	}

	cc := &CandidateContext{
		Provider:         p,
		Profile:          profile,
		Availability:     window,
		Criteria:         criteria,
		EvaluatedAt:      now,
		CategoryFallback: fallback,
	}
	breakdown := e.scorer.ScoreCandidate(cc)
	e.adjuster.Adjust(breakdown, criteria.Urgency)
	return breakdown, nil
}

// BuildProfile exposes the performance aggregator for audit surfaces like
// the provider profile endpoint.
func (e *Engine) BuildProfile(ctx context.Context, providerID uuid.UUID) (*PerformanceProfile, error) {
	return e.aggregator.BuildProfile(ctx, providerID, e.now())
}
