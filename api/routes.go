package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes sets up the public gallery, the auth endpoints and the
// admin console routes.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.getGallery())
		r.Get("/project/{projectID}", handlers.projectHandler.getProjectDetail())

		r.Post("/auth/login", handlers.authHandler.login())
	})

	// Admin routes, gated behind a bearer token
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/auth/me", handlers.authHandler.me())
		r.Post("/auth/logout", handlers.authHandler.logout())

		r.Get("/admin/projects", handlers.adminProjectHandler.listProjects())
		r.Post("/admin/projects", handlers.adminProjectHandler.createProject())
		r.Put("/admin/projects/{projectID}", handlers.adminProjectHandler.updateProject())
		r.Patch("/admin/projects/{projectID}/visibility", handlers.adminProjectHandler.setVisibility())
		r.Delete("/admin/projects/{projectID}", handlers.adminProjectHandler.deleteProject())

		r.Post("/admin/uploads", handlers.uploadHandler.uploadImage())
	})

	r.Handle("/metrics", promhttp.Handler())
}
