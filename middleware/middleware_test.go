package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shahinaks/FOODORDERAPP/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	a := &Auth{}
	handler := a.Authenticate(okHandler())

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "bare token", header: "not-a-bearer-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
			}
		})
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	a := &Auth{}
	handler := a.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(okHandler())

	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("non-admin user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req = req.WithContext(ContextWithUser(req.Context(), models.User{Role: "user"}))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
		}
	})

	t.Run("admin user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req = req.WithContext(ContextWithUser(req.Context(), models.User{Role: "admin"}))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})
}

// Order cancel and logout are sent without a body or Content-Type header;
// they must reach their handlers.
func TestValidateJSONBodyAllowsBodilessMutations(t *testing.T) {
	reached := false
	handler := ValidateJSONBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	for _, target := range []struct {
		method string
		url    string
	}{
		{http.MethodPut, "/api/orders/64f000000000000000000000/cancel"},
		{http.MethodPost, "/api/auth/logout"},
	} {
		reached = false
		req := httptest.NewRequest(target.method, target.url, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: expected status %d, got %d", target.method, target.url, http.StatusOK, rec.Code)
		}
		if !reached {
			t.Errorf("%s %s: request never reached the handler", target.method, target.url)
		}
	}
}

func TestValidateJSONBody(t *testing.T) {
	handler := ValidateJSONBody(okHandler())

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		status      int
	}{
		{name: "GET passes through", method: http.MethodGet, status: http.StatusOK},
		{name: "DELETE passes through", method: http.MethodDelete, status: http.StatusOK},
		{name: "valid JSON POST", method: http.MethodPost, contentType: "application/json", body: `{"a":1}`, status: http.StatusOK},
		{name: "charset suffix accepted", method: http.MethodPost, contentType: "application/json; charset=utf-8", body: `{}`, status: http.StatusOK},
		{name: "wrong content type", method: http.MethodPost, contentType: "text/plain", body: `{}`, status: http.StatusUnsupportedMediaType},
		{name: "invalid JSON", method: http.MethodPost, contentType: "application/json", body: `{"a":`, status: http.StatusBadRequest},
		{name: "bodiless PUT passes through", method: http.MethodPut, status: http.StatusOK},
		{name: "bodiless POST passes through", method: http.MethodPost, status: http.StatusOK},
		{name: "empty body with JSON content type passes through", method: http.MethodPost, contentType: "application/json", body: "", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/orders", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
