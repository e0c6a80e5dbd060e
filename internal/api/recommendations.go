package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fieldstack/vendormatch/internal/catalog"
	"github.com/fieldstack/vendormatch/internal/engine"
	"github.com/fieldstack/vendormatch/internal/events"
)

type RecommendationsHandler struct {
	engine *engine.Engine
	events events.Client
}

func NewRecommendationsHandler(e *engine.Engine, ev events.Client) *RecommendationsHandler {
	return &RecommendationsHandler{engine: e, events: ev}
}

type RecommendRequest struct {
	Category      string     `json:"category"`
	Urgency       string     `json:"urgency"`
	Limit         int        `json:"limit,omitempty"`
	BudgetCeiling *float64   `json:"budget_ceiling,omitempty"`
	RequiredBy    *time.Time `json:"required_by,omitempty"`
}

type RecommendResponse struct {
	Recommendations  []*engine.ScoreBreakdown `json:"recommendations"`
	CategoryFallback bool                     `json:"category_fallback"`
	EvaluatedAt      time.Time                `json:"evaluated_at"`
}

// Recommend ranks a tenant's providers for a work request. Invalid criteria
// are a 400; an empty candidate pool is a 200 with an empty list.
func (h *RecommendationsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category required"})
		return
	}

	criteria := engine.Criteria{
		Category:      catalog.Normalize(req.Category),
		Urgency:       engine.Urgency(req.Urgency),
		BudgetCeiling: req.BudgetCeiling,
		RequiredBy:    req.RequiredBy,
	}
	if err := criteria.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	tenantID := r.Header.Get("X-Tenant-ID")
	ranked, err := h.engine.Recommend(r.Context(), criteria, tenantID, req.Limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := RecommendResponse{
		Recommendations: ranked,
		EvaluatedAt:     time.Now().UTC(),
	}
	if len(ranked) > 0 {
		resp.CategoryFallback = ranked[0].CategoryFallback
	}

	if h.events != nil {
		ev := events.RecommendationServedEvent{
			TenantID:         tenantID,
			Category:         criteria.Category,
			Urgency:          string(criteria.Urgency),
			Returned:         len(ranked),
			CategoryFallback: resp.CategoryFallback,
			ServedAt:         resp.EvaluatedAt,
		}
		if len(ranked) > 0 {
			ev.TopProviderID = ranked[0].Provider.ID.String()
			ev.TopScore = ranked[0].TotalScore
		}
		_ = h.events.Publish(r.Context(), events.SubjectRecommendationServed(tenantID), ev)
	}

	writeJSON(w, http.StatusOK, resp)
}
