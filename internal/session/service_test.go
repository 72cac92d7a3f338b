package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

func TestLoginSharedPassword(t *testing.T) {
	svc := NewService("test-secret", "123456", time.Hour)

	for _, email := range []string{"gestor@ortocare.com", "anything@example.com", ""} {
		sess, err := svc.Login(email, "123456")
		if err != nil {
			t.Fatalf("login with %q: %v", email, err)
		}
		if sess.Role != RoleGestor {
			t.Errorf("expected role %s, got %s", RoleGestor, sess.Role)
		}
		if sess.Token == "" {
			t.Error("expected a session token")
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService("test-secret", "123456", time.Hour)

	sess, err := svc.Login("gestor@ortocare.com", "654321")
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if sess != nil {
		t.Fatal("no session may be created on a wrong password")
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	svc := NewService("test-secret", "123456", time.Hour)

	sess, err := svc.Login("gestor@ortocare.com", "123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.Verify(sess.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "gestor@ortocare.com" {
		t.Errorf("unexpected subject %q", claims.Subject)
	}

	if _, err := svc.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := NewService("secret-a", "123456", time.Hour)
	verifier := NewService("secret-b", "123456", time.Hour)

	sess, err := issuer.Login("x@example.com", "123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := verifier.Verify(sess.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestLoginHandler(t *testing.T) {
	svc := NewService("test-secret", "123456", time.Hour)
	handler := NewHandler(svc, logging.Default())

	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"gestor@ortocare.com","password":"123456"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var sess Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sess.Role != RoleGestor {
		t.Errorf("expected role GESTOR, got %s", sess.Role)
	}
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	svc := NewService("test-secret", "123456", time.Hour)
	handler := NewHandler(svc, logging.Default())

	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"gestor@ortocare.com","password":"guess"}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "incorrect password" {
		t.Errorf("expected visible incorrect password message, got %q", body["error"])
	}
}
