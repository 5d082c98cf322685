// Package service provides the business logic of the identity and task
// services, delegating persistence to repositories.
package service

import "errors"

// Sentinel errors returned by the services. Handlers map these onto
// HTTP statuses; everything else is treated as an internal error.
var (
	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUsername means the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials means authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller does not own the requested record.
	ErrForbidden = errors.New("forbidden")
)
