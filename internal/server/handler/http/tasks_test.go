package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/taskmesh/internal/models"
	"github.com/atinyakov/taskmesh/internal/service"
	"go.uber.org/zap"
)

// fakeTaskService implements TaskService for testing.
type fakeTaskService struct {
	task      *models.Task
	taskErr   error
	list      []models.Task
	listErr   error
	deleteErr error

	lastUserID int64
	lastSkip   int
	lastLimit  int
}

func (f *fakeTaskService) Create(ctx context.Context, userID int64, req models.TaskCreate) (*models.Task, error) {
	f.lastUserID = userID
	return f.task, f.taskErr
}

func (f *fakeTaskService) List(ctx context.Context, userID int64, skip, limit int) ([]models.Task, error) {
	f.lastUserID = userID
	f.lastSkip = skip
	f.lastLimit = limit
	return f.list, f.listErr
}

func (f *fakeTaskService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	return f.task, f.taskErr
}

func (f *fakeTaskService) Update(ctx context.Context, userID, taskID int64, upd *models.TaskUpdate) (*models.Task, error) {
	return f.task, f.taskErr
}

func (f *fakeTaskService) Delete(ctx context.Context, userID, taskID int64) error {
	return f.deleteErr
}

func taskRequest(method, target, userID, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	return req
}

func TestTaskRouter_TrustHeaderEnforcement(t *testing.T) {
	router := NewTaskRouter(&TaskHandler{Tasks: &fakeTaskService{}}, zap.NewNop())

	tests := []struct {
		name           string
		userID         string
		expectedCode   int
		expectedSubstr string
	}{
		{"missing header", "", http.StatusUnauthorized, "User ID not provided"},
		{"non-numeric header", "abc", http.StatusBadRequest, "Invalid user ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, taskRequest("GET", "/tasks", tt.userID, ""))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestTaskRouter_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeTaskService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not json`,
			service:        &fakeTaskService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Invalid request payload",
		},
		{
			name:           "empty title",
			body:           `{"title":"   "}`,
			service:        &fakeTaskService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Title cannot be empty",
		},
		{
			name:           "title too long",
			body:           `{"title":"` + strings.Repeat("x", 201) + `"}`,
			service:        &fakeTaskService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Title must be less than 200 characters",
		},
		{
			name:           "success",
			body:           `{"title":"buy milk"}`,
			service:        &fakeTaskService{task: &models.Task{ID: 1, Title: "buy milk", OwnerID: 42}},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"owner_id":42`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewTaskRouter(&TaskHandler{Tasks: tt.service}, zap.NewNop())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, taskRequest("POST", "/tasks", "42", tt.body))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
			if tt.expectedCode == http.StatusCreated && tt.service.lastUserID != 42 {
				t.Errorf("expected owner 42, got %d", tt.service.lastUserID)
			}
		})
	}
}

func TestTaskRouter_List(t *testing.T) {
	svc := &fakeTaskService{list: []models.Task{}}
	router := NewTaskRouter(&TaskHandler{Tasks: svc}, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, taskRequest("GET", "/tasks?skip=5&limit=10", "7", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// An owner without tasks gets an empty JSON array, never null.
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %q", rec.Body.String())
	}
	if svc.lastSkip != 5 || svc.lastLimit != 10 {
		t.Errorf("expected skip=5 limit=10, got skip=%d limit=%d", svc.lastSkip, svc.lastLimit)
	}
}

func TestTaskRouter_OwnershipErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedCode   int
		expectedSubstr string
	}{
		{"missing task", service.ErrNotFound, http.StatusNotFound, "Task not found"},
		{"foreign task", service.ErrForbidden, http.StatusForbidden, "Not authorized to access this task"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewTaskRouter(&TaskHandler{Tasks: &fakeTaskService{taskErr: tt.err}}, zap.NewNop())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, taskRequest("GET", "/tasks/5", "1", ""))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestTaskRouter_InvalidTaskID(t *testing.T) {
	router := NewTaskRouter(&TaskHandler{Tasks: &fakeTaskService{}}, zap.NewNop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, taskRequest("GET", "/tasks/abc", "1", ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid task ID") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestTaskRouter_UpdateValidatesTitle(t *testing.T) {
	router := NewTaskRouter(&TaskHandler{Tasks: &fakeTaskService{}}, zap.NewNop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, taskRequest("PUT", "/tasks/5", "1", `{"title":""}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Title cannot be empty") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestTaskRouter_Delete(t *testing.T) {
	router := NewTaskRouter(&TaskHandler{
		Tasks: &fakeTaskService{task: &models.Task{ID: 5, OwnerID: 1}},
	}, zap.NewNop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, taskRequest("DELETE", "/tasks/5", "1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Task deleted successfully") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestTaskRouter_Health(t *testing.T) {
	router := NewTaskRouter(&TaskHandler{Tasks: &fakeTaskService{}}, zap.NewNop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"task-service"`) {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}
