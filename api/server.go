/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/users/{user}/days/*       Ledger views, copy
  /api/users/{user}/entries/*    Work entry CRUD
  /api/users/{user}/leave/*      Leave toggles
  /api/users/{user}/training/*   Training toggles
  /api/users/{user}/bulk/*       Multi-date operations
  /api/users/{user}/import       Row import
  /api/users/{user}/report       Aggregation
  /api/users/{user}/scenarios/*  Demo data (dev only)
  /api/scenarios                 Demo scenario catalog
  /api/health                    Liveness

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/daycal/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/scenarios", h.ListScenarios)

		r.Route("/users/{user}", func(r chi.Router) {
			r.Delete("/", h.DeleteUser)

			// Day routes
			r.Route("/days", func(r chi.Router) {
				r.Get("/", h.ListDays)
				r.Get("/{date}", h.GetDay)
				r.Post("/{date}/copy", h.CopyDay)
			})

			// Entry routes
			r.Route("/entries", func(r chi.Router) {
				r.Post("/", h.CreateEntry)
				r.Patch("/{id}", h.UpdateEntry)
				r.Delete("/{id}", h.DeleteEntry)
			})

			r.Put("/leave/{date}", h.SetLeave)
			r.Put("/training/{date}", h.SetTraining)

			// Bulk routes
			r.Route("/bulk", func(r chi.Router) {
				r.Post("/entries", h.BulkAddEntry)
				r.Post("/leave", h.BulkSetLeave)
				r.Post("/training", h.BulkSetTraining)
				r.Post("/delete", h.BulkDeleteEntries)
			})

			r.Post("/import", h.Import)
			r.Get("/report", h.GetReport)
			r.Post("/scenarios/load", h.LoadScenario)
		})
	})

	return r
}
