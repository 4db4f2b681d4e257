package task

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/taskflow/internal/auth"
	"github.com/redmonkez12/taskflow/internal/httputil"
	"github.com/redmonkez12/taskflow/internal/logging"
)

// Handler serves the task endpoints. All routes run behind auth.RequireAuth.
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateTaskRequest is the body of POST /api/tasks. Status defaults to
// DefaultStatus when empty.
type CreateTaskRequest struct {
	Name      string   `json:"name"`
	Project   string   `json:"project"`
	DueDate   string   `json:"dueDate"`
	Priority  string   `json:"priority"`
	Assignees []string `json:"assignees"`
	Status    string   `json:"status"`
}

func (req CreateTaskRequest) Validate() error {
	if req.Name == "" || req.Project == "" || req.DueDate == "" || req.Priority == "" {
		return httputil.Invalid("Name, project, due date, and priority are required")
	}
	return nil
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Every field is required.
type UpdateTaskRequest struct {
	Name      string   `json:"name"`
	Project   string   `json:"project"`
	DueDate   string   `json:"dueDate"`
	Priority  string   `json:"priority"`
	Assignees []string `json:"assignees"`
	Status    string   `json:"status"`
}

func (req UpdateTaskRequest) Validate() error {
	if req.Name == "" || req.Project == "" || req.DueDate == "" || req.Priority == "" || req.Status == "" {
		return httputil.Invalid("All task fields are required")
	}
	return nil
}

// List returns the caller's tasks
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     TokenAuth
// @Success      200 {array}  Task
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	tasks, err := h.repo.ListByOwner(r.Context(), userID)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to list tasks", "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	httputil.RespondJSON(w, tasks, http.StatusOK)
}

// Create adds a task owned by the caller
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body CreateTaskRequest true "Task"
// @Success      201 {object} httputil.CreatedResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid JSON or missing fields"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req CreateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid task request body", "error", err.Error())
		httputil.RespondError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = DefaultStatus
	}

	t := &Task{
		UserID:    userID,
		Name:      req.Name,
		Project:   req.Project,
		DueDate:   req.DueDate,
		Priority:  req.Priority,
		Assignees: req.Assignees,
		Status:    status,
	}
	if err := h.repo.Create(r.Context(), t); err != nil {
		logger.Error("failed to create task", "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	logger.Info("task created", "task_id", t.ID)

	httputil.RespondJSON(w, httputil.CreatedResponse{ID: t.ID, Message: "Task created"}, http.StatusCreated)
}

// Update replaces every field of one of the caller's tasks
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id      path int               true "Task ID"
// @Param        request body UpdateTaskRequest true "Task"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid JSON or missing fields"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found or unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req UpdateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid task request body", "error", err.Error())
		httputil.RespondError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// body errors win over a bad id
	id, ok := taskID(r)
	if !ok {
		respondNotFound(w)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.repo.Update(r.Context(), &Task{
		ID:        id,
		UserID:    userID,
		Name:      req.Name,
		Project:   req.Project,
		DueDate:   req.DueDate,
		Priority:  req.Priority,
		Assignees: req.Assignees,
		Status:    req.Status,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondNotFound(w)
			return
		}
		logger.Error("failed to update task", "task_id", id, "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	httputil.RespondJSON(w, httputil.MessageResponse{Message: "Task updated"}, http.StatusOK)
}

// Delete removes one of the caller's tasks
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     TokenAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found or unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Database error"
// @Router       /api/tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	id, ok := taskID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	if err := h.repo.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondNotFound(w)
			return
		}
		logging.GetLoggerFromContext(r.Context()).Error("failed to delete task", "task_id", id, "error", err.Error())
		httputil.RespondStorageError(w, err)
		return
	}

	httputil.RespondJSON(w, httputil.MessageResponse{Message: "Task deleted"}, http.StatusOK)
}

// taskID reads the {id} URL parameter. Ids that are not positive integers
// cannot match any row.
func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func respondNotFound(w http.ResponseWriter) {
	httputil.RespondError(w, "Task not found or unauthorized", http.StatusNotFound)
}
