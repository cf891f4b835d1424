package api

import (
	"github.com/rpupo63/portfolio-gallery-backend/database"
	"github.com/rpupo63/portfolio-gallery-backend/metrics"
	"github.com/rpupo63/portfolio-gallery-backend/session"
	"github.com/rpupo63/portfolio-gallery-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, store *storage.ImageStore, markers session.MarkerStore, m *metrics.Metrics, issuer tokenIssuer, passwordHash []byte, pageSize int) *routeHandlers {
	return &routeHandlers{
		projectHandler:      newProjectHandler(db.ProjectRepo(), markers, m),
		adminProjectHandler: newAdminProjectHandler(db.ProjectRepo(), pageSize),
		uploadHandler:       newUploadHandler(store, m),
		authHandler:         newAuthHandler(issuer, passwordHash),
	}
}
