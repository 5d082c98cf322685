package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/atinyakov/taskmesh/internal/middleware"
	"github.com/atinyakov/taskmesh/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenVerifier validates a bearer credential and extracts its claims.
type TokenVerifier interface {
	Verify(raw string) (*models.Claims, error)
}

// HealthChecker produces the composite gateway health verdict.
type HealthChecker interface {
	Check(ctx context.Context) models.HealthReport
}

// Handler terminates client-facing authentication and forwards requests
// to the downstream services, injecting the verified caller identity.
type Handler struct {
	// Tokens verifies bearer tokens on protected routes.
	Tokens TokenVerifier
	// Client relays outbound requests.
	Client Client
	// Health aggregates dependency health.
	Health HealthChecker
	// UserServiceURL is the identity service base URL.
	UserServiceURL string
	// TaskServiceURL is the task service base URL.
	TaskServiceURL string
	// Log is the gateway logger.
	Log *zap.Logger
}

// authState enumerates the outcomes of the edge authentication decision.
type authState int

const (
	stateAuthorized authState = iota
	stateUnauthorized
)

// authOutcome is the explicit result of verifying an inbound request,
// threaded to the forwarder instead of being handled via control flow.
type authOutcome struct {
	state  authState
	claims *models.Claims
}

// authenticate inspects the Authorization header and verifies the bearer
// token. It never reaches the network: a failed outcome short-circuits
// the request before any forwarding happens.
func (h *Handler) authenticate(r *http.Request) authOutcome {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return authOutcome{state: stateUnauthorized}
	}

	claims, err := h.Tokens.Verify(header[len(prefix):])
	if err != nil {
		return authOutcome{state: stateUnauthorized}
	}
	return authOutcome{state: stateAuthorized, claims: claims}
}

// Register handles POST /register by forwarding the body verbatim to the
// identity service.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.proxyIdentity(w, r, "/register")
}

// Login handles POST /login by forwarding the body verbatim to the
// identity service.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.proxyIdentity(w, r, "/login")
}

// Me handles GET /users/me. The raw Authorization header is forwarded to
// the identity service only; the task service never sees the token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	outcome := h.authenticate(r)
	if outcome.state != stateAuthorized {
		h.unauthorized(w)
		return
	}

	header := make(http.Header)
	header.Set("Authorization", r.Header.Get("Authorization"))

	resp, err := h.Client.Forward(r.Context(), ForwardRequest{
		Method:  http.MethodGet,
		BaseURL: h.UserServiceURL,
		Path:    "/users/me",
		Header:  header,
	})
	h.relay(w, resp, err, "User")
}

// TaskCollection handles GET and POST /tasks, forwarding to the task
// service with the verified user id in the trust header.
func (h *Handler) TaskCollection(w http.ResponseWriter, r *http.Request) {
	h.proxyTask(w, r, "/tasks")
}

// TaskItem handles GET, PUT, and DELETE /tasks/{id}.
func (h *Handler) TaskItem(w http.ResponseWriter, r *http.Request) {
	h.proxyTask(w, r, "/tasks/"+chi.URLParam(r, "id"))
}

// HealthCheck handles GET /health with the aggregated dependency status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := h.Health.Check(r.Context())
	h.writeJSON(w, http.StatusOK, report)
}

// proxyIdentity forwards a public request to the identity service,
// preserving body bytes and an explicit JSON content type.
func (h *Handler) proxyIdentity(w http.ResponseWriter, r *http.Request, path string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.internal(w, err)
		return
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	resp, err := h.Client.Forward(r.Context(), ForwardRequest{
		Method:  r.Method,
		BaseURL: h.UserServiceURL,
		Path:    path,
		Body:    body,
		Header:  header,
	})
	h.relay(w, resp, err, "User")
}

// proxyTask verifies the caller, derives the trust header from the
// claims, and forwards the request to the task service. The forwarder is
// never invoked when verification fails.
func (h *Handler) proxyTask(w http.ResponseWriter, r *http.Request, path string) {
	outcome := h.authenticate(r)
	if outcome.state != stateAuthorized {
		h.unauthorized(w)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.internal(w, err)
		return
	}

	header := make(http.Header)
	header.Set(middleware.UserIDHeader, strconv.FormatInt(outcome.claims.UserID, 10))
	if len(body) > 0 {
		header.Set("Content-Type", "application/json")
	}

	resp, err := h.Client.Forward(r.Context(), ForwardRequest{
		Method:   r.Method,
		BaseURL:  h.TaskServiceURL,
		Path:     path,
		RawQuery: r.URL.RawQuery,
		Body:     body,
		Header:   header,
	})
	h.relay(w, resp, err, "Task")
}

// relay writes the downstream response unchanged, or translates the
// forwarder's classified failure into the gateway's own error response.
func (h *Handler) relay(w http.ResponseWriter, resp *ForwardResponse, err error, service string) {
	if errors.Is(err, ErrUnavailable) {
		h.writeDetail(w, http.StatusServiceUnavailable, service+" service unavailable")
		return
	}
	if err != nil {
		h.internal(w, err)
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func (h *Handler) unauthorized(w http.ResponseWriter) {
	h.writeDetail(w, http.StatusUnauthorized, "Invalid or missing token")
}

// internal logs the failure and withholds its detail from the client.
func (h *Handler) internal(w http.ResponseWriter, err error) {
	if h.Log != nil {
		h.Log.Error("gateway internal error", zap.Error(err))
	}
	h.writeDetail(w, http.StatusInternalServerError, "Internal server error")
}

func (h *Handler) writeDetail(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, map[string]string{"detail": detail})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
