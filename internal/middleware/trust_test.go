package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTrustHeader(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		setHeader      bool
		expectedCode   int
		expectedSubstr string
		expectedUserID int64
	}{
		{
			name:           "missing header",
			setHeader:      false,
			expectedCode:   http.StatusUnauthorized,
			expectedSubstr: "User ID not provided",
		},
		{
			name:           "non-numeric header",
			setHeader:      true,
			header:         "abc",
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Invalid user ID",
		},
		{
			name:           "empty header value",
			setHeader:      true,
			header:         "",
			expectedCode:   http.StatusUnauthorized,
			expectedSubstr: "User ID not provided",
		},
		{
			name:           "valid header",
			setHeader:      true,
			header:         "42",
			expectedCode:   http.StatusOK,
			expectedUserID: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUserID, _ = GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/tasks", nil)
			if tt.setHeader {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			TrustHeader(next).ServeHTTP(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}
			if tt.expectedCode == http.StatusOK {
				if !called {
					t.Fatal("expected next handler to be called")
				}
				if gotUserID != tt.expectedUserID {
					t.Errorf("expected user ID %d, got %d", tt.expectedUserID, gotUserID)
				}
			} else {
				if called {
					t.Fatal("expected next handler not to be called")
				}
				if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
					t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
				}
			}
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := GetUserIDFromContext(req.Context()); ok {
		t.Error("expected no user ID in a bare context")
	}
}
