package patients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

type stubStore struct {
	putErr error
	stored realtime.Record
}

func (s *stubStore) List(_ context.Context, _ string) ([]realtime.Record, error) {
	return nil, nil
}

func (s *stubStore) Put(_ context.Context, _ string, rec realtime.Record) (realtime.Record, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	out := realtime.Record{"id": "remote-1"}
	for k, v := range rec {
		out[k] = v
	}
	s.stored = out
	return out, nil
}

func (s *stubStore) Patch(_ context.Context, _ string, _ string, _ realtime.Record) error {
	return nil
}

func (s *stubStore) Delete(_ context.Context, _ string, _ string) error { return nil }

type stubNotifier struct{}

func (stubNotifier) Publish(_ context.Context, _ string) error { return nil }
func (stubNotifier) Subscribe(_ context.Context, _ string) (<-chan string, func(), error) {
	ch := make(chan string)
	return ch, func() {}, nil
}

func patientRequest(t *testing.T, method, target, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPatientHandler_ListSeeded(t *testing.T) {
	repo := NewSeededRepository([]Patient{{ID: "p1", Name: "Maria"}, {ID: "p2", Name: "João"}})
	handler := NewHandler(repo, nil, logging.Default())

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/patients", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(list))
	}
}

func TestPatientHandler_CreateLocalOnly(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, logging.Default())

	req := patientRequest(t, http.MethodPost, "/patients",
		`{"name":"Carla","email":"carla@example.com","condition":"escoliose"}`, nil)
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	list, _ := repo.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("expected patient in local repo, got %d", len(list))
	}
}

func TestPatientHandler_CreateUnconfiguredBridgeFallsBack(t *testing.T) {
	repo := NewInMemoryRepository()
	bridge := realtime.NewBridge(nil, nil, logging.Default(), nil)
	handler := NewHandler(repo, bridge, logging.Default())

	req := patientRequest(t, http.MethodPost, "/patients",
		`{"name":"Carla","phone":"11988887777"}`, nil)
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	list, _ := repo.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("expected local fallback write, got %d patients", len(list))
	}
}

func TestPatientHandler_CreateRemoteWins(t *testing.T) {
	repo := NewInMemoryRepository()
	store := &stubStore{}
	bridge := realtime.NewBridge(store, stubNotifier{}, logging.Default(), nil)
	handler := NewHandler(repo, bridge, logging.Default())

	req := patientRequest(t, http.MethodPost, "/patients",
		`{"name":"Bruno","email":"bruno@example.com"}`, nil)
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "remote-1" {
		t.Errorf("expected the backend-assigned id, got %q", got.ID)
	}

	// The local repo converges via snapshot, never via the handler.
	list, _ := repo.List(context.Background())
	if len(list) != 0 {
		t.Errorf("expected no direct local write, got %d patients", len(list))
	}
}

func TestPatientHandler_CreateRemoteFailureIs502(t *testing.T) {
	repo := NewInMemoryRepository()
	store := &stubStore{putErr: errors.New("throttled")}
	bridge := realtime.NewBridge(store, stubNotifier{}, logging.Default(), nil)
	handler := NewHandler(repo, bridge, logging.Default())

	req := patientRequest(t, http.MethodPost, "/patients",
		`{"name":"Bruno","email":"bruno@example.com"}`, nil)
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	list, _ := repo.List(context.Background())
	if len(list) != 0 {
		t.Errorf("failed remote write must not land locally, got %d patients", len(list))
	}
}

func TestPatientHandler_CreateValidation(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, logging.Default())

	req := patientRequest(t, http.MethodPost, "/patients", `{"email":"x@example.com"}`, nil)
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPatientHandler_UpdateNotFound(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, logging.Default())

	req := patientRequest(t, http.MethodPatch, "/patients/missing",
		`{"name":"Novo"}`, map[string]string{"patientID": "missing"})
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPatientHandler_AddNote(t *testing.T) {
	repo := NewSeededRepository([]Patient{{ID: "p1", Name: "Maria"}})
	handler := NewHandler(repo, nil, logging.Default())

	req := patientRequest(t, http.MethodPost, "/patients/p1/notes",
		`{"author":"Dr. Reis","text":"Reavaliação em 30 dias"}`, map[string]string{"patientID": "p1"})
	rec := httptest.NewRecorder()
	handler.AddNote(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Notes) != 1 || got.Notes[0].Text != "Reavaliação em 30 dias" {
		t.Fatalf("note missing from response: %+v", got.Notes)
	}
}
