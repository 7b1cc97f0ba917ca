/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the planning frontend

ROUTE GROUPS:
  /api/projects/*   Projects, fund parameters, tasks, groups, projection
  /api/tasks/*      Task deletion by ID
  /api/groups/*     Group deletion by ID
  /api/scenarios/*  Demo scenarios

SECURITY NOTE:
  No authentication middleware. Authentication and sessions are handled
  by the surrounding deployment, not this service.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Delete("/{id}", h.DeleteProject)

			r.Get("/{id}/fund", h.GetFundParameters)
			r.Put("/{id}/fund", h.SaveFundParameters)

			r.Get("/{id}/tasks", h.ListTasks)
			r.Post("/{id}/tasks", h.SaveTask)
			r.Post("/{id}/tasks/expand", h.ExpandTemplate)

			r.Get("/{id}/groups", h.ListGroups)
			r.Post("/{id}/groups", h.SaveGroup)

			r.Get("/{id}/projection", h.GetProjection)
		})

		// Direct deletion routes
		r.Delete("/tasks/{id}", h.DeleteTask)
		r.Delete("/groups/{id}", h.DeleteGroup)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
