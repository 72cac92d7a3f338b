package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ortocare/clinic-platform/internal/session"
)

func sessionToken(t *testing.T, svc *session.Service) string {
	t.Helper()
	sess, err := svc.Login("gestor@ortocare.com", "123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return sess.Token
}

func TestSessionAuthAcceptsValidToken(t *testing.T) {
	svc := session.NewService("test-secret", "123456", 0)
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := SessionClaimsFromContext(r.Context())
		if !ok {
			t.Error("expected claims in context")
		}
		if claims.Subject != "gestor@ortocare.com" {
			t.Errorf("unexpected subject: %s", claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, svc))
	rec := httptest.NewRecorder()

	SessionAuth(svc)(handler).ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionAuthRejectsMissingHeader(t *testing.T) {
	svc := session.NewService("test-secret", "123456", 0)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	rec := httptest.NewRecorder()

	SessionAuth(svc)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthRejectsForeignToken(t *testing.T) {
	ours := session.NewService("test-secret", "123456", 0)
	theirs := session.NewService("other-secret", "123456", 0)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, theirs))
	rec := httptest.NewRecorder()

	SessionAuth(ours)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthNilVerifier(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	rec := httptest.NewRecorder()

	SessionAuth(nil)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
