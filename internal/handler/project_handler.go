package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/projecttracker/tracker/internal/metrics"
	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/internal/repository"
	"github.com/projecttracker/tracker/internal/service"
)

const msgProjectNotFound = "Project not found"

// ProjectHandler serves the project endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		slog.Error("list projects failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	project, err := h.projectService.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "create project failed", err)
		return
	}

	metrics.ProjectMutations.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusCreated, project)
}

// Update handles PUT /api/projects/{id}. Existence is checked before the
// body is read, so an unknown id answers 404 whatever the body.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.projectService.GetByID(r.Context(), id); err != nil {
		h.writeServiceError(w, "get project failed", err)
		return
	}

	var req model.UpdateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	project, err := h.projectService.Update(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, "update project failed", err)
		return
	}

	metrics.ProjectMutations.WithLabelValues("update").Inc()
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, msgProjectNotFound)
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
