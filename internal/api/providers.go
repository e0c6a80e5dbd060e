package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fieldstack/vendormatch/internal/catalog"
	"github.com/fieldstack/vendormatch/internal/engine"
	"github.com/fieldstack/vendormatch/internal/events"
	"github.com/fieldstack/vendormatch/internal/store"
)

type ProvidersHandler struct {
	store  store.Store
	engine *engine.Engine
	events events.Client
}

func NewProvidersHandler(s store.Store, e *engine.Engine, ev events.Client) *ProvidersHandler {
	return &ProvidersHandler{store: s, engine: e, events: ev}
}

type CreateProviderRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Rating       float64 `json:"rating,omitempty"`
	ContactEmail string  `json:"contact_email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
}

func (h *ProvidersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and category required"})
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rating must be between 0 and 5"})
		return
	}

	p := &store.Provider{
		TenantID:     r.Header.Get("X-Tenant-ID"),
		Name:         req.Name,
		Category:     catalog.Normalize(req.Category),
		Rating:       req.Rating,
		Active:       true,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
	}
	if err := h.store.CreateProvider(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(r.Context(), events.SubjectProviderRegistered(p.ID.String()), events.ProviderEvent{
			ProviderID: p.ID.String(),
			TenantID:   p.TenantID,
			Category:   p.Category,
			Active:     p.Active,
		})
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *ProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ProviderFilter{
		TenantID: r.Header.Get("X-Tenant-ID"),
		Category: r.URL.Query().Get("category"),
	}
	if r.URL.Query().Get("active") == "true" {
		filter.ActiveOnly = true
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	providers, err := h.store.ListProviders(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if providers == nil {
		providers = []*store.Provider{}
	}
	writeJSON(w, http.StatusOK, providers)
}

func (h *ProvidersHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type UpdateProviderRequest struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Active       *bool    `json:"active,omitempty"`
	ContactEmail *string  `json:"contact_email,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
}

func (h *ProvidersHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req UpdateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rating must be between 0 and 5"})
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = catalog.Normalize(*req.Category)
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.ContactEmail != nil {
		p.ContactEmail = *req.ContactEmail
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}

	if err := h.store.UpdateProvider(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(r.Context(), events.SubjectProviderUpdated(p.ID.String()), events.ProviderEvent{
			ProviderID: p.ID.String(),
			TenantID:   p.TenantID,
			Category:   p.Category,
			Active:     p.Active,
		})
	}

	writeJSON(w, http.StatusOK, p)
}

// Profile exposes the rolling performance aggregation for one provider, the
// same numbers the scorer consumes. Useful when an operator asks why a
// provider ranked where it did.
func (h *ProvidersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	profile, err := h.engine.BuildProfile(r.Context(), p.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"provider": p,
		"profile":  profile,
	})
}

type CreateAvailabilityRequest struct {
	State    string    `json:"state"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (h *ProvidersHandler) DeclareAvailability(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req CreateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	state := store.AvailabilityState(req.State)
	switch state {
	case store.AvailabilityAvailable, store.AvailabilityPartiallyOccupied, store.AvailabilityUnavailable:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "state must be available, partially_occupied or unavailable"})
		return
	}
	if !req.EndsAt.After(req.StartsAt) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ends_at must be after starts_at"})
		return
	}

	window := &store.AvailabilityWindow{
		ProviderID: p.ID,
		State:      state,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
	}
	if err := h.store.CreateAvailabilityWindow(r.Context(), window); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, window)
}

// lookup resolves the {id} route param to a provider in the caller's tenant.
// It writes the error response itself and reports success via the bool.
func (h *ProvidersHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.Provider, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid provider id"})
		return nil, false
	}
	p, err := h.store.GetProvider(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if p == nil || p.TenantID != r.Header.Get("X-Tenant-ID") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "provider not found"})
		return nil, false
	}
	return p, true
}
