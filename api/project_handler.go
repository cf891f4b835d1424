package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-gallery-backend/database"
	"github.com/rpupo63/portfolio-gallery-backend/errs"
	"github.com/rpupo63/portfolio-gallery-backend/metrics"
	"github.com/rpupo63/portfolio-gallery-backend/models"
	"github.com/rpupo63/portfolio-gallery-backend/search"
	"github.com/rpupo63/portfolio-gallery-backend/session"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	markers     session.MarkerStore
	metrics     *metrics.Metrics
}

func newProjectHandler(projectRepo *database.ProjectRepo, markers session.MarkerStore, m *metrics.Metrics) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		markers:     markers,
		metrics:     m,
	}
}

// ProjectCollection represents the public gallery listing
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

// ProjectWithChallenges represents a project with its ordered challenges
type ProjectWithChallenges struct {
	Project    models.Project     `json:"project"`
	Challenges []models.Challenge `json:"challenges"`
}

// getGallery retrieves the publicly visible projects
// @Summary Get gallery projects
// @Description Retrieves visible projects ordered by start date, optionally narrowed by category and free-text query
// @Tags Projects
// @Produce json
// @Param category query string false "Category filter (featured|projects|labs)"
// @Param q query string false "Free-text filter over title, description and tags"
// @Success 200 {object} ProjectCollection "List of visible projects"
// @Failure 400 {object} ErrorResponse "Bad Request - unknown category"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category != "" && !models.ValidCategory(category) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "must be featured, projects or labs"))
			return
		}

		projects, err := h.projectRepo.FindVisible(r.Context(), category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find visible projects", "projects", err))
			return
		}

		projects = search.Filter(projects, r.URL.Query().Get("q"))

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProjectDetail retrieves one visible project with its challenges
// @Summary Get project detail
// @Description Retrieves one visible project with its challenges ordered by display order. Counts the view once per session.
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectWithChallenges "Project details with challenges"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project absent or hidden"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /project/{projectID} [get]
func (h projectHandler) getProjectDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectIDStr := chi.URLParam(r, "projectID")
		if projectIDStr == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		projectID, err := uuid.Parse(projectIDStr)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.projectRepo.FindVisibleByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		// Fire-and-forget: the page renders regardless of whether the
		// view registers.
		go h.trackView(projectID, sessionIDFromRequest(r))

		h.responder.WriteJSON(w, ProjectWithChallenges{
			Project:    *project,
			Challenges: project.Challenges,
		})
	}
}

// trackView bumps the view counter at most once per session. The marker is
// set before the increment so a second near-simultaneous request skips, and
// unset again on failure so the session can retry later.
func (h projectHandler) trackView(projectID uuid.UUID, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var key string
	if sessionID != "" {
		key = session.ViewedKey(sessionID, projectID.String())
		fresh, err := h.markers.Mark(ctx, key)
		if err != nil {
			// Count anyway; losing dedup beats losing the view.
			h.logger.Error().Err(err).Msg("Failed to set view marker")
			key = ""
		} else if !fresh {
			return
		}
	}

	if err := h.projectRepo.IncrementViewCount(ctx, projectID); err != nil {
		h.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Failed to increment view count")
		if key != "" {
			if err := h.markers.Unmark(ctx, key); err != nil {
				h.logger.Error().Err(err).Msg("Failed to roll back view marker")
			}
		}
		return
	}

	h.metrics.IncrementViews()
}

// sessionIDFromRequest extracts the caller's session identity used for
// view-count dedup. Requests without one are counted on every visit.
func sessionIDFromRequest(r *http.Request) string {
	if v := r.Header.Get("X-Session-ID"); v != "" {
		return v
	}
	if cookie, err := r.Cookie("session_id"); err == nil {
		return cookie.Value
	}
	return ""
}
