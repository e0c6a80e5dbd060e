package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fieldstack/vendormatch/internal/config"
	"github.com/fieldstack/vendormatch/internal/store"
)

// Mock implementations

type mockStore struct {
	providers map[uuid.UUID]*store.Provider
	orders    map[uuid.UUID][]*store.WorkOrder
	reviews   map[uuid.UUID][]*store.Review
	windows   map[uuid.UUID]*store.AvailabilityWindow
	pending   map[uuid.UUID]int
	failFor   map[uuid.UUID]bool
}

func newMockStore() *mockStore {
	return &mockStore{
		providers: make(map[uuid.UUID]*store.Provider),
		orders:    make(map[uuid.UUID][]*store.WorkOrder),
		reviews:   make(map[uuid.UUID][]*store.Review),
		windows:   make(map[uuid.UUID]*store.AvailabilityWindow),
		pending:   make(map[uuid.UUID]int),
		failFor:   make(map[uuid.UUID]bool),
	}
}

func (m *mockStore) CreateProvider(_ context.Context, p *store.Provider) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.providers[p.ID] = p
	return nil
}
func (m *mockStore) GetProvider(_ context.Context, id uuid.UUID) (*store.Provider, error) {
	return m.providers[id], nil
}
func (m *mockStore) ListProviders(_ context.Context, _ store.ProviderFilter) ([]*store.Provider, error) {
	var out []*store.Provider
	for _, p := range m.providers {
		out = append(out, p)
	}
	return out, nil
}
func (m *mockStore) UpdateProvider(_ context.Context, p *store.Provider) error {
	m.providers[p.ID] = p
	return nil
}
func (m *mockStore) ListActiveProviders(_ context.Context, tenantID string) ([]*store.Provider, error) {
	var out []*store.Provider
	for _, p := range m.providers {
		if p.TenantID == tenantID && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}
func (m *mockStore) CreateWorkOrder(_ context.Context, wo *store.WorkOrder) error {
	if wo.ID == uuid.Nil {
		wo.ID = uuid.New()
	}
	m.orders[wo.ProviderID] = append(m.orders[wo.ProviderID], wo)
	return nil
}
func (m *mockStore) GetWorkOrder(_ context.Context, _ uuid.UUID) (*store.WorkOrder, error) {
	return nil, nil
}
func (m *mockStore) UpdateWorkOrder(_ context.Context, _ *store.WorkOrder) error { return nil }
func (m *mockStore) ListWorkOrdersSince(_ context.Context, providerID uuid.UUID, since time.Time) ([]*store.WorkOrder, error) {
	if m.failFor[providerID] {
		return nil, errors.New("history read failed")
	}
	var out []*store.WorkOrder
	for _, wo := range m.orders[providerID] {
		if !wo.AssignedAt.Before(since) {
			out = append(out, wo)
		}
	}
	return out, nil
}
func (m *mockStore) CountPendingWorkOrders(_ context.Context, providerID uuid.UUID) (int, error) {
	return m.pending[providerID], nil
}
func (m *mockStore) CreateReview(_ context.Context, r *store.Review) error {
	m.reviews[r.ProviderID] = append(m.reviews[r.ProviderID], r)
	return nil
}
func (m *mockStore) ListReviewsSince(_ context.Context, providerID uuid.UUID, since time.Time) ([]*store.Review, error) {
	var out []*store.Review
	for _, r := range m.reviews[providerID] {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *mockStore) CreateAvailabilityWindow(_ context.Context, w *store.AvailabilityWindow) error {
	m.windows[w.ProviderID] = w
	return nil
}
func (m *mockStore) CurrentAvailability(_ context.Context, providerID uuid.UUID, at time.Time) (*store.AvailabilityWindow, error) {
	w := m.windows[providerID]
	if w == nil || at.Before(w.StartsAt) || at.After(w.EndsAt) {
		return nil, nil
	}
	return w, nil
}
func (m *mockStore) GetStats(_ context.Context, _ string) (*store.TenantStats, error) {
	return &store.TenantStats{}, nil
}
func (m *mockStore) Close() error { return nil }

// Helpers

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		LookbackDays: 90,
		DefaultLimit: 5,
		Maxima: config.FactorMaxima{
			Rating:         25,
			Availability:   20,
			Specialization: 15,
			Workload:       15,
			Performance:    15,
			Responsiveness: 10,
		},
		Multipliers: config.UrgencyMultipliers{Urgent: 1.5, High: 1.2},
	}
}

func newTestEngine(m *mockStore) *Engine {
	e := New(m, testScoringConfig(), discardLogger())
	e.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func addProvider(m *mockStore, id byte, tenant, name, category string, rating float64) *store.Provider {
	p := &store.Provider{
		ID:       uuid.UUID{15: id},
		TenantID: tenant,
		Name:     name,
		Category: category,
		Rating:   rating,
		Active:   true,
	}
	m.providers[p.ID] = p
	return p
}

// Orchestrator tests

func TestRecommendInvalidUrgency(t *testing.T) {
	e := newTestEngine(newMockStore())
	_, err := e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: "catastrophic"}, "acme", 5)
	if err == nil {
		t.Fatal("expected validation error for unknown urgency")
	}
}

func TestRecommendEmptyTenant(t *testing.T) {
	e := newTestEngine(newMockStore())
	got, err := e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: UrgencyLow}, "acme", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 results, got %d", len(got))
	}
}

func TestRecommendZeroHistoryProvider(t *testing.T) {
	m := newMockStore()
	addProvider(m, 1, "acme", "Fresh Pipes", "plumbing", 4.0)
	e := newTestEngine(m)

	got, err := e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: UrgencyMedium}, "acme", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	b := got[0]
	// rating 20 + availability 20 + specialization 15 + workload 15 +
	// performance 1.5 (stable-trend bonus only) + responsiveness 5 (neutral)
	if b.TotalScore != 76.5 {
		t.Errorf("expected total 76.5 for zero-history provider, got %f", b.TotalScore)
	}
	if b.Scores.Performance != 1.5 {
		t.Errorf("expected performance 1.5, got %f", b.Scores.Performance)
	}
	if b.Scores.Responsiveness != 5 {
		t.Errorf("expected neutral responsiveness 5, got %f", b.Scores.Responsiveness)
	}
}

func TestRecommendDeterministicTieBreak(t *testing.T) {
	m := newMockStore()
	addProvider(m, 2, "acme", "Bravo Plumbing", "plumbing", 4.0)
	addProvider(m, 1, "acme", "Alpha Plumbing", "plumbing", 4.0)
	addProvider(m, 3, "acme", "Charlie Plumbing", "plumbing", 4.0)
	e := newTestEngine(m)

	criteria := Criteria{Category: "plumbing", Urgency: UrgencyLow}
	first, err := e.Recommend(context.Background(), criteria, "acme", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Recommend(context.Background(), criteria, "acme", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 results in both runs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Provider.ID != second[i].Provider.ID {
			t.Fatalf("ordering not deterministic at position %d", i)
		}
	}
	// Equal totals: identifier ascending
	for i := 1; i < len(first); i++ {
		if first[i-1].TotalScore == first[i].TotalScore &&
			first[i-1].Provider.ID.String() > first[i].Provider.ID.String() {
			t.Errorf("tie not broken by ascending provider ID at position %d", i)
		}
	}
}

func TestRecommendSortsByScoreDescending(t *testing.T) {
	m := newMockStore()
	addProvider(m, 1, "acme", "Low Rated", "plumbing", 2.0)
	addProvider(m, 2, "acme", "High Rated", "plumbing", 5.0)
	e := newTestEngine(m)

	got, err := e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: UrgencyLow}, "acme", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Provider.Name != "High Rated" {
		t.Errorf("expected High Rated first, got %s", got[0].Provider.Name)
	}
	if got[0].TotalScore < got[1].TotalScore {
		t.Error("results not sorted descending")
	}
}

func TestRecommendLimitTruncation(t *testing.T) {
	m := newMockStore()
	for i := byte(1); i <= 8; i++ {
		addProvider(m, i, "acme", "Provider", "plumbing", 4.0)
	}
	e := newTestEngine(m)

	got, err := e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: UrgencyLow}, "acme", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 results with limit 3, got %d", len(got))
	}

	// limit <= 0 falls back to the configured default of 5
	got, err = e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: UrgencyLow}, "acme", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected default limit 5, got %d", len(got))
	}
}

func TestRecommendExcludesFailingCandidate(t *testing.T) {
	m := newMockStore()
	ok := addProvider(m, 1, "acme", "Reliable Reads", "plumbing", 4.0)
	bad := addProvider(m, 2, "acme", "Broken Reads", "plumbing", 5.0)
	m.failFor[bad.ID] = true
	e := newTestEngine(m)

	got, err := e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: UrgencyLow}, "acme", 5)
	if err != nil {
		t.Fatalf("a failing candidate read must not abort the call: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Provider.ID != ok.ID {
		t.Errorf("expected only the healthy candidate, got %s", got[0].Provider.Name)
	}
}

func TestRecommendCategoryFallback(t *testing.T) {
	m := newMockStore()
	addProvider(m, 1, "acme", "Sparks Electric", "electrical", 4.2)
	e := newTestEngine(m)

	got, err := e.Recommend(context.Background(), Criteria{Category: "roofing", Urgency: UrgencyLow}, "acme", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected fallback to yield 1 result, got %d", len(got))
	}
	if !got[0].CategoryFallback {
		t.Error("expected CategoryFallback flag on result")
	}
	// Fallback providers still only earn the partial specialization score
	if s := got[0].Scores.Specialization; math.Abs(s-5) > 1e-9 {
		t.Errorf("expected specialization 5 under fallback, got %f", s)
	}
}

func TestRecommendTotalWithinBounds(t *testing.T) {
	m := newMockStore()
	addProvider(m, 1, "acme", "Top Shelf", "plumbing", 5.0)
	e := newTestEngine(m)

	for _, urgency := range []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent} {
		got, err := e.Recommend(context.Background(), Criteria{Category: "plumbing", Urgency: urgency}, "acme", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, b := range got {
			if b.TotalScore < 0 || b.TotalScore > 100 {
				t.Errorf("urgency %s: total %f outside [0, 100]", urgency, b.TotalScore)
			}
		}
	}
}
