package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fieldstack/vendormatch/internal/events"
	"github.com/fieldstack/vendormatch/internal/store"
)

type ReviewsHandler struct {
	store  store.Store
	events events.Client
}

func NewReviewsHandler(s store.Store, ev events.Client) *ReviewsHandler {
	return &ReviewsHandler{store: s, events: ev}
}

type CreateReviewRequest struct {
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
	WorkOrderID string `json:"work_order_id,omitempty"`
}

// Create records a 1-5 star review against the provider in the route.
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rating must be between 1 and 5"})
		return
	}

	tenantID := r.Header.Get("X-Tenant-ID")
	p, err := h.store.GetProvider(r.Context(), providerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if p == nil || p.TenantID != tenantID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "provider not found"})
		return
	}

	review := &store.Review{
		TenantID:   tenantID,
		ProviderID: providerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if req.WorkOrderID != "" {
		woID, err := uuid.Parse(req.WorkOrderID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid work_order_id"})
			return
		}
		review.WorkOrderID = &woID
	}

	if err := h.store.CreateReview(r.Context(), review); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		ev := events.ReviewRecordedEvent{
			ProviderID:  providerID.String(),
			Rating:      review.Rating,
			SubmittedAt: review.CreatedAt,
		}
		if review.WorkOrderID != nil {
			ev.WorkOrderID = review.WorkOrderID.String()
		}
		_ = h.events.Publish(r.Context(), events.SubjectReviewRecorded(providerID.String()), ev)
	}

	writeJSON(w, http.StatusCreated, review)
}
