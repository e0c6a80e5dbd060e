package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fieldstack/vendormatch/internal/store"
)

func createWorkOrder(t *testing.T, router http.Handler, providerID string) *store.WorkOrder {
	t.Helper()
	w := doJSON(router, "POST", "/api/v1/workorders",
		`{"provider_id":"`+providerID+`","title":"Fix kitchen sink"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var wo store.WorkOrder
	if err := json.NewDecoder(w.Body).Decode(&wo); err != nil {
		t.Fatalf("failed to decode work order: %v", err)
	}
	return &wo
}

func TestWorkOrderLifecycle(t *testing.T) {
	router, ms, me := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)

	wo := createWorkOrder(t, router, p.ID.String())
	if wo.Status != store.StatusAssigned {
		t.Fatalf("expected assigned, got %s", wo.Status)
	}
	if wo.AssignedAt.IsZero() {
		t.Fatal("assignment timestamp must be set on create")
	}

	w := doJSON(router, "POST", "/api/v1/workorders/"+wo.ID.String()+"/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var started store.WorkOrder
	json.NewDecoder(w.Body).Decode(&started)
	if started.Status != store.StatusInProgress {
		t.Errorf("expected in_progress, got %s", started.Status)
	}
	if started.StartedAt == nil {
		t.Error("expected started timestamp")
	}

	w = doJSON(router, "POST", "/api/v1/workorders/"+wo.ID.String()+"/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var completed store.WorkOrder
	json.NewDecoder(w.Body).Decode(&completed)
	if completed.Status != store.StatusCompleted {
		t.Errorf("expected completed, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("expected completion timestamp")
	}

	// created, started, completed
	if len(me.published) != 3 {
		t.Errorf("expected 3 lifecycle events, got %d: %v", len(me.published), me.published)
	}
}

func TestWorkOrderDoubleStartRejected(t *testing.T) {
	router, ms, _ := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)
	wo := createWorkOrder(t, router, p.ID.String())

	if w := doJSON(router, "POST", "/api/v1/workorders/"+wo.ID.String()+"/start", ""); w.Code != http.StatusOK {
		t.Fatalf("first start: expected 200, got %d", w.Code)
	}
	if w := doJSON(router, "POST", "/api/v1/workorders/"+wo.ID.String()+"/start", ""); w.Code != http.StatusConflict {
		t.Fatalf("second start: expected 409, got %d", w.Code)
	}
}

func TestWorkOrderCompleteWithoutStart(t *testing.T) {
	// Completing straight from assigned backfills the start timestamp so
	// the completion span stays measurable.
	router, ms, _ := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)
	wo := createWorkOrder(t, router, p.ID.String())

	w := doJSON(router, "POST", "/api/v1/workorders/"+wo.ID.String()+"/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var completed store.WorkOrder
	json.NewDecoder(w.Body).Decode(&completed)
	if completed.StartedAt == nil {
		t.Error("expected backfilled start timestamp")
	}
	if !completed.StartedAt.Equal(completed.AssignedAt) {
		t.Errorf("backfilled start should equal assignment time: %v vs %v",
			completed.StartedAt, completed.AssignedAt)
	}
}

func TestWorkOrderCancelClosed(t *testing.T) {
	router, ms, _ := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)
	wo := createWorkOrder(t, router, p.ID.String())

	doJSON(router, "POST", "/api/v1/workorders/"+wo.ID.String()+"/complete", "")
	if w := doJSON(router, "POST", "/api/v1/workorders/"+wo.ID.String()+"/cancel", ""); w.Code != http.StatusConflict {
		t.Fatalf("cancelling a completed order: expected 409, got %d", w.Code)
	}
}

func TestWorkOrderCreate_UnknownProvider(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doJSON(router, "POST", "/api/v1/workorders",
		`{"provider_id":"00000000-0000-0000-0000-000000000001","title":"Fix sink"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateReview(t *testing.T) {
	router, ms, me := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)

	w := doJSON(router, "POST", "/api/v1/providers/"+p.ID.String()+"/reviews",
		`{"rating":5,"comment":"quick and tidy"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var rev store.Review
	json.NewDecoder(w.Body).Decode(&rev)
	if rev.Rating != 5 {
		t.Errorf("expected rating 5, got %d", rev.Rating)
	}
	if len(ms.reviews[p.ID]) != 1 {
		t.Errorf("expected review stored, got %d", len(ms.reviews[p.ID]))
	}
	if len(me.published) != 1 {
		t.Errorf("expected review event, got %d", len(me.published))
	}
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	router, ms, _ := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)

	for _, body := range []string{`{"rating":0}`, `{"rating":6}`} {
		w := doJSON(router, "POST", "/api/v1/providers/"+p.ID.String()+"/reviews", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestDeclareAvailability(t *testing.T) {
	router, ms, _ := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)

	w := doJSON(router, "POST", "/api/v1/providers/"+p.ID.String()+"/availability",
		`{"state":"unavailable","starts_at":"2026-09-01T00:00:00Z","ends_at":"2026-09-08T00:00:00Z"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(ms.windows[p.ID]) != 1 {
		t.Fatalf("expected stored window, got %d", len(ms.windows[p.ID]))
	}
}

func TestDeclareAvailability_Invalid(t *testing.T) {
	router, ms, _ := setupTestRouter()
	p := seedProvider(ms, "tenant-1", "Ace Plumbing", "plumbing", 4.8)

	w := doJSON(router, "POST", "/api/v1/providers/"+p.ID.String()+"/availability",
		`{"state":"busy","starts_at":"2026-09-01T00:00:00Z","ends_at":"2026-09-08T00:00:00Z"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad state: expected 400, got %d", w.Code)
	}

	w = doJSON(router, "POST", "/api/v1/providers/"+p.ID.String()+"/availability",
		`{"state":"unavailable","starts_at":"2026-09-08T00:00:00Z","ends_at":"2026-09-01T00:00:00Z"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("inverted range: expected 400, got %d", w.Code)
	}
}
