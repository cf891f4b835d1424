package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-gallery-backend/database"
	"github.com/rpupo63/portfolio-gallery-backend/errs"
	"github.com/rpupo63/portfolio-gallery-backend/models"
)

const dateLayout = "2006-01-02"

type adminProjectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	pageSize    int
}

func newAdminProjectHandler(projectRepo *database.ProjectRepo, pageSize int) adminProjectHandler {
	logger := log.With().Str("handlerName", "adminProjectHandler").Logger()

	return adminProjectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		pageSize:    pageSize,
	}
}

// AdminProjectPage represents one page of the admin project table
type AdminProjectPage struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// saveProjectRequest carries one admin form submission: the project fields
// plus the ordered challenge drafts.
type saveProjectRequest struct {
	Title         string                  `json:"title"`
	Category      string                  `json:"category"`
	ProjectStatus string                  `json:"project_status"`
	CoverImageURL string                  `json:"proj_cover_image_url"`
	Description   string                  `json:"proj_description"`
	ProjectURL    string                  `json:"proj_url"`
	StartDate     string                  `json:"start_date"`
	EndDate       string                  `json:"end_date"`
	Tags          []string                `json:"tags"`
	Visibility    *bool                   `json:"visibility"`
	Challenges    []models.ChallengeDraft `json:"challenges"`
}

func (req saveProjectRequest) validate() *errs.ApiErr {
	if strings.TrimSpace(req.Title) == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if req.StartDate == "" {
		return errs.NewMissingRequiredFieldError("start_date")
	}
	if _, err := time.Parse(dateLayout, req.StartDate); err != nil {
		return errs.NewInvalidFieldError("start_date", "must be a date in YYYY-MM-DD format")
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return errs.NewInvalidFieldError("end_date", "must be a date in YYYY-MM-DD format")
		}
		start, _ := time.Parse(dateLayout, req.StartDate)
		if end.Before(start) {
			return errs.NewInvalidFieldError("end_date", "must not precede start_date")
		}
	}
	if req.Category != "" && !models.ValidCategory(req.Category) {
		return errs.NewInvalidFieldError("category", "must be featured, projects or labs")
	}
	if req.ProjectStatus != "" && !models.ValidStatus(req.ProjectStatus) {
		return errs.NewInvalidFieldError("project_status", "must be draft, published or archived")
	}
	return nil
}

// apply copies the submitted fields onto a project, leaving identity and
// counters untouched.
func (req saveProjectRequest) apply(project *models.Project) {
	project.Title = req.Title
	project.Category = req.Category
	if project.Category == "" {
		project.Category = models.CategoryProjects
	}
	project.ProjectStatus = req.ProjectStatus
	if project.ProjectStatus == "" {
		project.ProjectStatus = models.StatusDraft
	}
	project.CoverImageURL = optionalField(req.CoverImageURL)
	project.Description = optionalField(req.Description)
	project.ProjectURL = optionalField(req.ProjectURL)
	project.StartDate = req.StartDate
	project.EndDate = optionalField(req.EndDate)
	project.Tags = models.NormalizeTags(req.Tags)
	if req.Visibility != nil {
		project.Visibility = *req.Visibility
	}
}

func optionalField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// listProjects retrieves one filtered, sorted page of all projects
// @Summary List projects (admin)
// @Description Retrieves all projects regardless of visibility, with composable filters, sorting and pagination
// @Tags Admin
// @Produce json
// @Param search query string false "Matches title substring or tag membership"
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Param visibility query string false "Visibility filter (true|false)"
// @Param sort query string false "Sort key, e.g. created_at-desc"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} AdminProjectPage "One page of projects with total count"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /admin/projects [get]
func (h adminProjectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		opts := database.ListOptions{
			Search:   query.Get("search"),
			Category: query.Get("category"),
			Status:   query.Get("status"),
			Limit:    h.pageSize,
		}

		switch query.Get("visibility") {
		case "true":
			visible := true
			opts.Visibility = &visible
		case "false":
			visible := false
			opts.Visibility = &visible
		}

		opts.SortField, opts.SortAsc = parseSortKey(query.Get("sort"))

		page := 1
		if p := query.Get("page"); p != "" {
			if parsed, err := parsePositiveInt(p); err == nil {
				page = parsed
			}
		}
		opts.Offset = (page - 1) * h.pageSize

		projects, total, err := h.projectRepo.List(r.Context(), opts)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, AdminProjectPage{
			Projects: projects,
			Total:    total,
			Page:     page,
			PageSize: h.pageSize,
		})
	}
}

// createProject creates a new project with its challenges
// @Summary Create project
// @Description Creates a project and its challenge set as one save
// @Tags Admin
// @Accept json
// @Produce json
// @Param project body saveProjectRequest true "Project data with challenge drafts"
// @Success 201 {object} ProjectWithChallenges "Created project with challenges"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /admin/projects [post]
func (h adminProjectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		if validationErr := req.validate(); validationErr != nil {
			h.responder.WriteError(w, validationErr)
			return
		}

		var project models.Project
		project.Visibility = true
		req.apply(&project)

		challenges := models.BuildChallenges(project.ID, req.Challenges)
		if err := h.projectRepo.SaveWithChallenges(r.Context(), &project, challenges, false); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		createdProject, err := h.projectRepo.FindByID(r.Context(), project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created project", "project", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, ProjectWithChallenges{
			Project:    *createdProject,
			Challenges: createdProject.Challenges,
		})
	}
}

// updateProject updates an existing project and replaces its challenges
// @Summary Update project
// @Description Updates a project and replaces its whole challenge set as one save
// @Tags Admin
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body saveProjectRequest true "Updated project data with challenge drafts"
// @Success 200 {object} ProjectWithChallenges "Updated project with challenges"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /admin/projects/{projectID} [put]
func (h adminProjectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existingProject, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		var req saveProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		if validationErr := req.validate(); validationErr != nil {
			h.responder.WriteError(w, validationErr)
			return
		}

		project := *existingProject
		project.Challenges = nil
		req.apply(&project)

		challenges := models.BuildChallenges(project.ID, req.Challenges)
		if err := h.projectRepo.SaveWithChallenges(r.Context(), &project, challenges, true); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		updatedProject, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated project", "project", err))
			return
		}

		h.responder.WriteJSON(w, ProjectWithChallenges{
			Project:    *updatedProject,
			Challenges: updatedProject.Challenges,
		})
	}
}

// setVisibility flips the public listing flag for a project
// @Summary Set project visibility
// @Tags Admin
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param visibility body object true "Desired visibility, e.g. {\"visibility\": false}"
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{projectID}/visibility [patch]
func (h adminProjectHandler) setVisibility() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req struct {
			Visibility *bool `json:"visibility"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("visibility", err))
			return
		}
		if req.Visibility == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("visibility"))
			return
		}

		if err := h.projectRepo.UpdateVisibility(r.Context(), projectID, *req.Visibility); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update visibility", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "visibility updated",
		})
	}
}

// deleteProject deletes a project and its challenges
// @Summary Delete project
// @Description Deletes a project and all of its challenge rows
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting project"
// @Router /admin/projects/{projectID} [delete]
func (h adminProjectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseProjectID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

func parseProjectID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid projectID")
	}
	return projectID, nil
}

// parseSortKey splits a "field-direction" sort key. Unknown values fall back
// to newest-first.
func parseSortKey(key string) (field string, asc bool) {
	field = "created_at"
	if key == "" {
		return field, false
	}
	idx := strings.LastIndex(key, "-")
	if idx <= 0 {
		return field, false
	}
	return key[:idx], key[idx+1:] == "asc"
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errs.ErrInvalidField
	}
	return n, nil
}
