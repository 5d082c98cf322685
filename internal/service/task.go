package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/taskmesh/internal/models"
)

// TaskRepository defines the persistence operations required by the
// task service.
type TaskRepository interface {
	// Create inserts a new task owned by ownerID.
	Create(ctx context.Context, title, description string, ownerID int64) (*models.Task, error)
	// GetByID fetches a task by ID; sql.ErrNoRows if absent.
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	// ListByOwner fetches the owner's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]models.Task, error)
	// Update applies the non-nil fields of upd; sql.ErrNoRows if absent.
	Update(ctx context.Context, id int64, upd *models.TaskUpdate) (*models.Task, error)
	// Delete removes a task, reporting whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}

// TaskService implements task operations guarded by ownership checks.
//
// Every record-level operation resolves the record before comparing
// owners, so a missing task is always ErrNotFound and never ErrForbidden.
type TaskService struct {
	repo TaskRepository
}

// NewTaskService constructs a new TaskService using the provided repository.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Create stores a new task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID int64, req models.TaskCreate) (*models.Task, error) {
	task, err := s.repo.Create(ctx, req.Title, req.Description, userID)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the caller's tasks with skip/limit pagination.
func (s *TaskService) List(ctx context.Context, userID int64, skip, limit int) ([]models.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the task with the given ID if it is owned by userID.
func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	return s.ownedTask(ctx, userID, taskID)
}

// Update applies the given changes to the task if it is owned by userID.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, upd *models.TaskUpdate) (*models.Task, error) {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	task, err := s.repo.Update(ctx, taskID, upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes the task if it is owned by userID.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}

	if _, err := s.repo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ownedTask loads the task and enforces the ownership guard ordering:
// existence first (ErrNotFound), ownership second (ErrForbidden).
func (s *TaskService) ownedTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.OwnerID != userID {
		return nil, ErrForbidden
	}
	return task, nil
}
