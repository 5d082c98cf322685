package gateway

import (
	"net/http"

	"github.com/atinyakov/taskmesh/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the gateway's HTTP handler.
//
// Routes:
//
//	POST /register      → proxy to the identity service (public)
//	POST /login         → proxy to the identity service (public)
//	GET  /users/me      → proxy to the identity service (protected)
//	GET|POST /tasks     → proxy to the task service (protected)
//	GET|PUT|DELETE /tasks/{id} → proxy to the task service (protected)
//	GET  /health        → aggregated dependency health (public)
//
// Route classification is static: protected handlers verify the bearer
// token themselves before any forwarding occurs.
func NewRouter(handler *Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Get("/health", handler.HealthCheck)

	// Protected endpoints: token verified at the edge
	r.Get("/users/me", handler.Me)
	r.Get("/tasks", handler.TaskCollection)
	r.Post("/tasks", handler.TaskCollection)
	r.Get("/tasks/{id}", handler.TaskItem)
	r.Put("/tasks/{id}", handler.TaskItem)
	r.Delete("/tasks/{id}", handler.TaskItem)

	return r
}
