package http

import (
	"net/http"

	"github.com/atinyakov/taskmesh/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewIdentityRouter constructs the HTTP handler of the identity service.
//
// Routes:
//
//	POST /register  → handler.Register
//	POST /login     → handler.Login
//	GET  /users/me  → handler.Me
//	GET  /health    → static health response
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") — rejects non-JSON bodies
//  2. WithRequestLogging(logger)           — logs incoming requests
func NewIdentityRouter(handler *IdentityHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Get("/users/me", handler.Me)
	r.Get("/health", serviceHealth("user-service"))

	return r
}

// NewTaskRouter constructs the HTTP handler of the task service.
//
// All /tasks routes sit behind the TrustHeader middleware, which resolves
// the caller identity injected by the gateway. The health endpoint stays
// public.
func NewTaskRouter(handler *TaskHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", serviceHealth("task-service"))

	// Protected group: requires the gateway's X-User-Id header
	r.Group(func(r chi.Router) {
		r.Use(middleware.TrustHeader)

		r.Post("/tasks", handler.Create)
		r.Get("/tasks", handler.List)
		r.Get("/tasks/{id}", handler.Get)
		r.Put("/tasks/{id}", handler.Update)
		r.Delete("/tasks/{id}", handler.Delete)
	})

	return r
}

// serviceHealth returns a handler reporting the service as healthy.
func serviceHealth(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": name,
		})
	}
}
