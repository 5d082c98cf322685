package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/taskmesh/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence operations required by the
// identity service.
type UserRepository interface {
	// CreateUser inserts a new user record and returns it with its ID.
	CreateUser(ctx context.Context, username, email, hashedPassword string) (*models.User, error)
	// GetByUsername fetches a user by username; sql.ErrNoRows if absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByEmail fetches a user by email; sql.ErrNoRows if absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID fetches a user by ID; sql.ErrNoRows if absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// UserService implements registration, authentication, and profile
// lookup by delegating to a UserRepository.
type UserService struct {
	repo UserRepository
}

// NewUserService constructs a new UserService using the provided repository.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user after enforcing email and username
// uniqueness. The password is stored as a bcrypt hash.
// Returns ErrDuplicateEmail or ErrDuplicateUsername on conflict.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, username, email, string(hashed))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the username/password pair.
// Returns ErrInvalidCredentials when the user is unknown or the password
// does not match; the two cases are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID fetches the user with the given ID.
// Returns ErrNotFound if no such user exists.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
