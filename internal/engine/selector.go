package engine

import "github.com/fieldstack/vendormatch/internal/store"

// Selection is the candidate pool for one request.
type Selection struct {
	Candidates []*store.Provider

	// CategoryFallback is true when no active provider matched the
	// requested category and the pool was widened to all active providers.
	CategoryFallback bool
}

// SelectCandidates filters the active population to type-compatible
// providers. When the category filter leaves nothing, every active provider
// becomes a candidate so the engine can still rank something; the fallback is
// flagged so callers know specialization was not honored.
func SelectCandidates(providers []*store.Provider, category string) Selection {
	var active []*store.Provider
	var matched []*store.Provider
	for _, p := range providers {
		if !p.Active {
			continue
		}
		active = append(active, p)
		if categoryMatches(p.Category, category) {
			matched = append(matched, p)
		}
	}

	if len(matched) > 0 {
		return Selection{Candidates: matched}
	}
	if len(active) > 0 {
		return Selection{Candidates: active, CategoryFallback: true}
	}
	return Selection{}
}
