// Package repository provides persistence implementations for the identity
// and task services against a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/taskmesh/internal/models"
)

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts a new user and returns the stored record with its
// generated ID. Uniqueness of username and email is the caller's concern.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, username, email, hashedPassword string) (*models.User, error) {
	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
	}
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (username, email, hashed_password) VALUES ($1, $2, $3) RETURNING id`,
		username, email, hashedPassword,
	).Scan(&user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByUsername fetches a user by username.
// Returns sql.ErrNoRows if no such user exists.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, email, hashed_password FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail fetches a user by email.
// Returns sql.ErrNoRows if no such user exists.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, email, hashed_password FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by ID.
// Returns sql.ErrNoRows if no such user exists.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, email, hashed_password FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
