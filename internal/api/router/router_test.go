package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ortocare/clinic-platform/internal/dashboard"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/seed"
	"github.com/ortocare/clinic-platform/internal/session"

	apptsPkg "github.com/ortocare/clinic-platform/internal/appointments"
	invPkg "github.com/ortocare/clinic-platform/internal/inventory"
	workPkg "github.com/ortocare/clinic-platform/internal/workshop"
)

func testRouter(t *testing.T) (http.Handler, *session.Service) {
	t.Helper()

	svc := session.NewService("test-secret", "123456", 0)
	patientsRepo := patients.NewSeededRepository(seed.Patients())

	cfg := &Config{
		SessionHandler:  session.NewHandler(svc, nil),
		SessionService:  svc,
		PatientsHandler: patients.NewHandler(patientsRepo, nil, nil),
		DashboardHandler: dashboard.NewHandler(
			patientsRepo,
			workPkg.NewSeededRepository(seed.WorkOrders()),
			invPkg.NewSeededRepository(seed.InventoryItems()),
			apptsPkg.NewSeededRepository(seed.Appointments()),
			nil,
		),
		LoginRateLimit: 100,
	}
	return New(cfg), svc
}

func login(t *testing.T, svc *session.Service) string {
	t.Helper()
	sess, err := svc.Login("gestor@ortocare.com", "123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return sess.Token
}

func TestRouterHealthIsPublic(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterLoginIsPublic(t *testing.T) {
	r, _ := testRouter(t)

	body := strings.NewReader(`{"email": "anyone@example.com", "password": "123456"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var sess session.Session
	if err := json.NewDecoder(rec.Body).Decode(&sess); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	if sess.Role != session.RoleGestor {
		t.Errorf("expected role %s, got %s", session.RoleGestor, sess.Role)
	}
}

func TestRouterClinicRoutesRequireSession(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{"/patients", "/dashboard"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, rec.Code)
		}
	}
}

func TestRouterClinicRoutesAcceptSessionToken(t *testing.T) {
	r, svc := testRouter(t)
	token := login(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var listed []patients.Patient
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode patients: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("expected 3 seeded patients, got %d", len(listed))
	}
}

func TestRouterUnconfiguredModulesAre404(t *testing.T) {
	r, svc := testRouter(t)
	token := login(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/finance/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unconfigured finance module, got %d", rec.Code)
	}
}
