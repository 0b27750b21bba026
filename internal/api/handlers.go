package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"task-approvals/internal/domain"
	"task-approvals/internal/services"
)

// TaskHandler serves the task routes over a TaskService.
type TaskHandler struct {
	svc services.TaskService
}

// NewTaskHandler creates a handler for svc.
func NewTaskHandler(svc services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type createTaskRequest struct {
	Approver1       string           `json:"approver1"`
	Approver2       string           `json:"approver2"`
	Approver3       string           `json:"approver3"`
	TaskDescription string           `json:"taskDescription"`
	Comments        []domain.Comment `json:"comments"`
}

type commentRequest struct {
	Comment string `json:"comment"`
	User    string `json:"user"`
}

type recommendationRequest struct {
	Recommendation string `json:"recommendation"`
	User           string `json:"user"`
}

type userRequest struct {
	User string `json:"user"`
}

// taskNameParam returns the decoded {taskName} segment. chi matches on the
// raw path when the request carries escapes such as %2F.
func taskNameParam(r *http.Request) string {
	name := chi.URLParam(r, "taskName")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// List handles GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ListTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create handles POST /tasks/create/{taskName}
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	task := domain.NewTask(taskNameParam(r), req.TaskDescription, req.Approver1, req.Approver2, req.Approver3)
	for _, c := range req.Comments {
		task.AppendComment(c)
	}

	created, err := h.svc.CreateTask(r.Context(), task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /tasks/{taskName}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.svc.GetTask(r.Context(), taskNameParam(r), r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// AddComment handles POST /tasks/{taskName}/comments
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	taskName := taskNameParam(r)
	if err := h.svc.AddComment(r.Context(), taskName, req.Comment, req.User); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("comment added to task %s", taskName))
}

// ClearComments handles DELETE /tasks/{taskName}/comments. The user may
// come from the body or the query string.
func (h *TaskHandler) ClearComments(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	if req.User == "" {
		req.User = r.URL.Query().Get("user")
	}

	taskName := taskNameParam(r)
	if err := h.svc.ClearComments(r.Context(), taskName, req.User); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("comments cleared for task %s", taskName))
}

// SetRecommendation handles POST /tasks/{taskName}/recommendation
func (h *TaskHandler) SetRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	taskName := taskNameParam(r)
	if err := h.svc.SetRecommendation(r.Context(), taskName, req.Recommendation, req.User); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("recommendation added to task %s", taskName))
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler creates a health handler. pinger may be nil.
func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Message: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
