package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/response"
	projectService "github.com/nikhil/teamhub/internal/service/projects"
)

type ProjectHandler struct {
	Responder
	Service *projectService.ProjectService
}

func NewProjectHandler(service *projectService.ProjectService, rs Responder) *ProjectHandler {
	return &ProjectHandler{Responder: rs, Service: service}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.List(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.Service.Get(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req projectService.CreateProjectRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	project, err := h.Service.Create(r.Context(), middleware.CurrentUser(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req projectService.UpdateProjectRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	project, err := h.Service.Update(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
