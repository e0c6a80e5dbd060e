package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fieldstack/vendormatch/internal/events"
	"github.com/fieldstack/vendormatch/internal/store"
)

type WorkOrdersHandler struct {
	store  store.Store
	events events.Client
}

func NewWorkOrdersHandler(s store.Store, ev events.Client) *WorkOrdersHandler {
	return &WorkOrdersHandler{store: s, events: ev}
}

type CreateWorkOrderRequest struct {
	ProviderID            string     `json:"provider_id"`
	Title                 string     `json:"title"`
	EstimatedCompletionAt *time.Time `json:"estimated_completion_at,omitempty"`
}

// Create records an assignment. The assignment timestamp anchors the
// provider's response-time measurement for this order.
func (h *WorkOrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title required"})
		return
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider_id"})
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

	wo := &store.WorkOrder{
		TenantID:              tenantID,
		ProviderID:            providerID,
		Title:                 req.Title,
		Status:                store.StatusAssigned,
		AssignedAt:            time.Now().UTC(),
		EstimatedCompletionAt: req.EstimatedCompletionAt,
	}
	if err := h.store.CreateWorkOrder(r.Context(), wo); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.publish(r, events.SubjectWorkOrderCreated(wo.ID.String()), wo)
	writeJSON(w, http.StatusCreated, wo)
}

func (h *WorkOrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	wo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

// Start marks the provider as on the job. Assignment-to-start is the
// responsiveness signal, so starting twice is rejected rather than
// silently refreshing the timestamp.
func (h *WorkOrdersHandler) Start(w http.ResponseWriter, r *http.Request) {
	wo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if wo.Status != store.StatusAssigned {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "work order is not in assigned state"})
		return
	}

	now := time.Now().UTC()
	wo.Status = store.StatusInProgress
	wo.StartedAt = &now
	if err := h.store.UpdateWorkOrder(r.Context(), wo); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.publish(r, events.SubjectWorkOrderStarted(wo.ID.String()), wo)
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrdersHandler) Complete(w http.ResponseWriter, r *http.Request) {
	wo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if wo.Status != store.StatusInProgress && wo.Status != store.StatusAssigned {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "work order already closed"})
		return
	}

	now := time.Now().UTC()
	if wo.StartedAt == nil {
		// Completed without an explicit start; count the whole span as work.
		wo.StartedAt = &wo.AssignedAt
	}
	wo.Status = store.StatusCompleted
	wo.CompletedAt = &now
	if err := h.store.UpdateWorkOrder(r.Context(), wo); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.publish(r, events.SubjectWorkOrderCompleted(wo.ID.String()), wo)
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	wo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if wo.Status == store.StatusCompleted || wo.Status == store.StatusCancelled {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "work order already closed"})
		return
	}

	wo.Status = store.StatusCancelled
	if err := h.store.UpdateWorkOrder(r.Context(), wo); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.publish(r, events.SubjectWorkOrderCancelled(wo.ID.String()), wo)
	writeJSON(w, http.StatusOK, wo)
}

func (h *WorkOrdersHandler) publish(r *http.Request, subject string, wo *store.WorkOrder) {
	if h.events == nil {
		return
	}
	_ = h.events.Publish(r.Context(), subject, events.WorkOrderEvent{
		WorkOrderID: wo.ID.String(),
		TenantID:    wo.TenantID,
		ProviderID:  wo.ProviderID.String(),
		Status:      string(wo.Status),
	})
}

func (h *WorkOrdersHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.WorkOrder, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid work order id"})
		return nil, false
	}
	wo, err := h.store.GetWorkOrder(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if wo == nil || wo.TenantID != r.Header.Get("X-Tenant-ID") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "work order not found"})
		return nil, false
	}
	return wo, true
}
