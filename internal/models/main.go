// Package models defines the core data structures shared by the gateway,
// identity, and task services.
package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Email is the user's unique email address.
	Email string `json:"email"`
	// HashedPassword is the bcrypt hash of the password. Never serialized.
	HashedPassword string `json:"-"`
}

// Task represents a single task record owned by a user.
type Task struct {
	// ID is the unique identifier for the task.
	ID int64 `json:"id"`
	// Title is the short task title, 1-200 characters after trimming.
	Title string `json:"title"`
	// Description holds optional free-form details.
	Description string `json:"description"`
	// Completed reports whether the task is done.
	Completed bool `json:"completed"`
	// OwnerID is the ID of the user owning the task. Set once at creation.
	OwnerID int64 `json:"owner_id"`
	// CreatedAt is the creation timestamp, maintained by the store.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the last-modification timestamp, maintained by the store.
	UpdatedAt time.Time `json:"updated_at"`
}

// Claims defines the information carried by an access token.
type Claims struct {
	// UserID is the numeric ID of the authenticated user.
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// RegisterRequest is the JSON payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON payload for user login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TaskCreate is the JSON payload for creating a task.
type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskUpdate is the JSON payload for updating a task.
// Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// HealthReport is the composite health verdict produced by the gateway.
type HealthReport struct {
	// Status is "healthy", "degraded", or "unhealthy".
	Status string `json:"status"`
	// Service names the reporting service.
	Service string `json:"service"`
	// Dependencies maps each probed dependency to "healthy" or "unhealthy".
	Dependencies map[string]string `json:"dependencies,omitempty"`
	// Error explains an aggregator-level failure, if any.
	Error string `json:"error,omitempty"`
}
