package appointments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

func TestCalendarHandler_ListByDateSorted(t *testing.T) {
	repo := NewSeededRepository([]Appointment{
		{ID: "a1", PatientName: "Maria", Date: "2026-09-10", Time: "14:00"},
		{ID: "a2", PatientName: "João", Date: "2026-09-10", Time: "08:00"},
		{ID: "a3", PatientName: "Ana", Date: "2026-09-11", Time: "09:00"},
		{ID: "a4", PatientName: "Rui", Date: "2026-09-10", Time: "10:30"},
	})
	handler := NewHandler(repo, nil, logging.Default())

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/calendar?date=2026-09-10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 slots on 2026-09-10, got %d", len(list))
	}
	want := []string{"08:00", "10:30", "14:00"}
	for i, w := range want {
		if list[i].Time != w {
			t.Fatalf("position %d: got %s, want %s", i, list[i].Time, w)
		}
	}
}

func TestCalendarHandler_ListRejectsBadDate(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, logging.Default())

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/calendar?date=next-tuesday", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCalendarHandler_Create(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, logging.Default())

	body := `{"patient_name":"Maria","date":"2026-09-10","time":"9:15","type":"workshop"}`
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/calendar", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Time != "09:15" {
		t.Errorf("time must normalize on create, got %q", got.Time)
	}
	if got.Status != "scheduled" {
		t.Errorf("expected scheduled status, got %q", got.Status)
	}
}

func TestCalendarHandler_CreateValidation(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, logging.Default())

	body := `{"patient_name":"Maria","date":"2026-09-10","time":"25:99"}`
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/calendar", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
