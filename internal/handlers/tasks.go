package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/response"
	taskService "github.com/nikhil/teamhub/internal/service/tasks"
)

type TaskHandler struct {
	Responder
	Service *taskService.TaskService
}

func NewTaskHandler(service *taskService.TaskService, rs Responder) *TaskHandler {
	return &TaskHandler{Responder: rs, Service: service}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := taskService.ListTasksRequest{
		ProjectID:  q.Get("projectId"),
		Status:     models.TaskStatus(q.Get("status")),
		AssignedTo: q.Get("assignedTo"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}

	tasks, err := h.Service.List(r.Context(), middleware.CurrentUser(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.Service.Get(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskService.CreateTaskRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.Service.Create(r.Context(), middleware.CurrentUser(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req taskService.UpdateTaskRequest
	fields, err := decodeFields(w, r, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req.Submitted = fields

	task, err := h.Service.Update(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
