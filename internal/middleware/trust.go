package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDHeader is the internal-only header carrying the verified caller
// identity. Only the gateway legitimately sets it; downstream services
// treat its presence as proof of authentication.
const UserIDHeader = "X-User-Id"

// TrustHeader is a middleware that resolves the caller identity injected
// by the gateway.
//
// A missing header is rejected with 401 since the request cannot have
// passed the gateway's verification. A non-numeric value is rejected with
// 400. On success the integer user ID is stored in the request context
// for the downstream handlers.
func TrustHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			writeDetail(w, http.StatusUnauthorized, "User ID not provided")
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the verified caller ID from the request
// context. Returns false if the TrustHeader middleware did not run.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// writeDetail writes a JSON error body in the {"detail": ...} shape
// shared by all services.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
