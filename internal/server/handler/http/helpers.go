// Package http provides HTTP handlers and routers for the identity and
// task services.
package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the shared {"detail": ...} error body.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// bearerToken extracts the raw token from an "Authorization: Bearer <token>"
// header. Returns false for a missing or malformed header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// validateTitle trims the title and enforces the 1-200 character bound.
// Returns the trimmed title and an error message suitable for a 400 body.
func validateTitle(title string) (string, string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", "Title cannot be empty"
	}
	if len(title) > 200 {
		return "", "Title must be less than 200 characters"
	}
	return trimmed, ""
}
