package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/taskmesh/internal/middleware"
	"github.com/atinyakov/taskmesh/internal/models"
	"github.com/atinyakov/taskmesh/internal/service"
	"github.com/go-chi/chi/v5"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// TaskService defines the task operations required by the HTTP handlers.
// All record-level operations enforce ownership of the acting user.
type TaskService interface {
	// Create stores a new task owned by userID.
	Create(ctx context.Context, userID int64, req models.TaskCreate) (*models.Task, error)
	// List returns the caller's tasks with skip/limit pagination.
	List(ctx context.Context, userID int64, skip, limit int) ([]models.Task, error)
	// Get returns a single owned task.
	Get(ctx context.Context, userID, taskID int64) (*models.Task, error)
	// Update applies changes to an owned task.
	Update(ctx context.Context, userID, taskID int64, upd *models.TaskUpdate) (*models.Task, error)
	// Delete removes an owned task.
	Delete(ctx context.Context, userID, taskID int64) error
}

// TaskHandler handles HTTP requests for task CRUD operations.
// It expects the TrustHeader middleware to have resolved the caller ID.
type TaskHandler struct {
	// Tasks performs the underlying task operations.
	Tasks TaskService
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User ID not provided")
		return
	}

	var req models.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	title, msg := validateTitle(req.Title)
	if msg != "" {
		writeDetail(w, http.StatusBadRequest, msg)
		return
	}
	req.Title = title

	task, err := h.Tasks.Create(r.Context(), userID, req)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// List handles GET /tasks with optional skip and limit query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User ID not provided")
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", defaultListLimit)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	tasks, err := h.Tasks.List(r.Context(), userID, skip, limit)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.ids(w, r)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(r.Context(), userID, taskID)
	if h.writeTaskError(w, err, "access") {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT /tasks/{id} with a partial update body.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.ids(w, r)
	if !ok {
		return
	}

	var upd models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if upd.Title != nil {
		title, msg := validateTitle(*upd.Title)
		if msg != "" {
			writeDetail(w, http.StatusBadRequest, msg)
			return
		}
		upd.Title = &title
	}

	task, err := h.Tasks.Update(r.Context(), userID, taskID, &upd)
	if h.writeTaskError(w, err, "update") {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.ids(w, r)
	if !ok {
		return
	}

	err := h.Tasks.Delete(r.Context(), userID, taskID)
	if h.writeTaskError(w, err, "delete") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// ids resolves the caller ID from the context and the task ID from the URL,
// writing the error response itself when either is unusable.
func (h *TaskHandler) ids(w http.ResponseWriter, r *http.Request) (userID, taskID int64, ok bool) {
	userID, found := middleware.GetUserIDFromContext(r.Context())
	if !found {
		writeDetail(w, http.StatusUnauthorized, "User ID not provided")
		return 0, 0, false
	}

	taskID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid task ID")
		return 0, 0, false
	}
	return userID, taskID, true
}

// writeTaskError maps service errors onto HTTP responses.
// Returns true if a response was written.
func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error, verb string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Not authorized to "+verb+" this task")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
	return true
}

// queryInt parses an integer query parameter, falling back to def when
// the parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
