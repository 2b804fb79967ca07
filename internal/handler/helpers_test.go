package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tabletap/staff-api/internal/auth"
	"github.com/tabletap/staff-api/internal/middleware"
)

const testSecret = "test-secret"

// newRouter builds an authenticated router the way the server wires it:
// everything behind the JWT middleware.
func newRouter(t *testing.T, register func(chi.Router)) (http.Handler, string) {
	t.Helper()

	token, err := auth.GenerateToken(testSecret, "staff-1", "resto-1", "WAITER", uuid.New())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		register(r)
	})
	return r, token
}

func doRequest(t *testing.T, h http.Handler, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
