package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldstack/vendormatch/internal/engine"
	"github.com/fieldstack/vendormatch/internal/events"
	"github.com/fieldstack/vendormatch/internal/store"
)

func NewRouter(s store.Store, eng *engine.Engine, ev events.Client, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	recommendations := NewRecommendationsHandler(eng, ev)
	providers := NewProvidersHandler(s, eng, ev)
	workorders := NewWorkOrdersHandler(s, ev)
	reviews := NewReviewsHandler(s, ev)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TenantIDMiddleware)

		r.Post("/recommendations", recommendations.Recommend)

		r.Post("/providers", providers.Create)
		r.Get("/providers", providers.List)
		r.Get("/providers/{id}", providers.Get)
		r.Patch("/providers/{id}", providers.Update)
		r.Get("/providers/{id}/profile", providers.Profile)
		r.Post("/providers/{id}/availability", providers.DeclareAvailability)
		r.Post("/providers/{id}/reviews", reviews.Create)

		r.Post("/workorders", workorders.Create)
		r.Get("/workorders/{id}", workorders.Get)
		r.Post("/workorders/{id}/start", workorders.Start)
		r.Post("/workorders/{id}/complete", workorders.Complete)
		r.Post("/workorders/{id}/cancel", workorders.Cancel)

		r.Get("/categories", CategoriesHandler{}.List)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
