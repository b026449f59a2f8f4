package handlers

import (
	"StateDeck/internal/serialize"
	"StateDeck/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProjectHandler — CRUD проектов.
type ProjectHandler struct {
	Projects *service.ProjectService
	Logger   *zap.SugaredLogger
}

func NewProjectHandler(projects *service.ProjectService, logger *zap.SugaredLogger) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Logger: logger}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Projects.List(r.Context())
	if err != nil {
		writeAppError(w, h.Logger, "ListProjects", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.Projects(list))
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("CreateProject: invalid request", "error", err)
		writeAppError(w, h.Logger, "CreateProject", err)
		return
	}
	p, err := h.Projects.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeAppError(w, h.Logger, "CreateProject", err)
		return
	}
	writeJSON(w, http.StatusCreated, serialize.FromProject(p))
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.Logger, "GetProject", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.FromProject(p))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, h.Logger, "DeleteProject", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
