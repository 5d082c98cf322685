package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/taskmesh/internal/models"
	"github.com/atinyakov/taskmesh/internal/service"
)

// UserService defines the identity operations required by the HTTP handlers.
type UserService interface {
	// Register creates a new user, enforcing username and email uniqueness.
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	// Authenticate verifies a username/password pair.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	// GetByID fetches a user by ID.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// TokenManager issues and verifies access tokens for the identity service.
type TokenManager interface {
	// Issue creates a signed token for the given user.
	Issue(username string, userID int64) (string, error)
	// Verify validates a raw token and returns its claims.
	Verify(raw string) (*models.Claims, error)
}

// IdentityHandler handles HTTP requests for registration, login, and
// self-profile lookup.
type IdentityHandler struct {
	// Users performs the underlying identity operations.
	Users UserService
	// Tokens issues tokens at login and verifies them at profile lookup.
	Tokens TokenManager
}

// Register handles POST /register.
// It expects a JSON body with username, email, and password, and responds
// with 201 and the created user record, or 400 on duplicates.
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Username == "" || req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Users.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	case errors.Is(err, service.ErrDuplicateUsername):
		writeDetail(w, http.StatusBadRequest, "Username already taken")
		return
	case err != nil:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /login.
// On success it responds with 200 and an access token; on failure with
// 401 carrying a WWW-Authenticate challenge.
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.Tokens.Issue(user.Username, user.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /users/me.
// It verifies the bearer token itself, keeping the identity service
// correct even when called without the gateway in front.
func (h *IdentityHandler) Me(w http.ResponseWriter, r *http.Request) {
	raw, ok := bearerToken(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid or missing token")
		return
	}

	claims, err := h.Tokens.Verify(raw)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid or missing token")
		return
	}

	user, err := h.Users.GetByID(r.Context(), claims.UserID)
	if errors.Is(err, service.ErrNotFound) {
		writeDetail(w, http.StatusUnauthorized, "Invalid or missing token")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
