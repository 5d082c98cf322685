package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/taskmesh/internal/models"
)

// PostgresTaskRepository implements task persistence against a PostgreSQL database.
type PostgresTaskRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

// Create inserts a new task owned by ownerID and returns the stored record.
func (r *PostgresTaskRepository) Create(ctx context.Context, title, description string, ownerID int64) (*models.Task, error) {
	task := &models.Task{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, completed, created_at, updated_at
	`, title, description, ownerID).Scan(&task.ID, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// GetByID fetches a single task by ID regardless of owner.
// Returns sql.ErrNoRows if the task does not exist.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, title, description, completed, owner_id, created_at, updated_at
		FROM tasks WHERE id = $1
	`, id).Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner fetches tasks belonging to ownerID ordered by creation time,
// newest first, with skip/limit pagination.
func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, description, completed, owner_id, created_at, updated_at
		FROM tasks WHERE owner_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return tasks, nil
}

// Update applies the non-nil fields of upd to the task with the given ID,
// refreshes updated_at, and returns the updated record.
// Returns sql.ErrNoRows if the task does not exist.
func (r *PostgresTaskRepository) Update(ctx context.Context, id int64, upd *models.TaskUpdate) (*models.Task, error) {
	var task models.Task
	err := r.DB.QueryRowContext(ctx, `
		UPDATE tasks SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			completed = COALESCE($4, completed),
			updated_at = now()
		WHERE id = $1
		RETURNING id, title, description, completed, owner_id, created_at, updated_at
	`, id, upd.Title, upd.Description, upd.Completed).
		Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes the task with the given ID.
// Returns true if a row was deleted.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}
