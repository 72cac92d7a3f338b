package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/inventory"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/seed"
	"github.com/ortocare/clinic-platform/internal/workshop"
)

func seededHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(
		patients.NewSeededRepository(seed.Patients()),
		workshop.NewSeededRepository(seed.WorkOrders()),
		inventory.NewSeededRepository(seed.InventoryItems()),
		appointments.NewSeededRepository(seed.Appointments()),
		nil,
	)
}

func TestDashboardStats(t *testing.T) {
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got StatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if got.PatientCount != 3 {
		t.Errorf("expected 3 patients, got %d", got.PatientCount)
	}
	if got.PendingEvals != 2 {
		t.Errorf("expected 2 pending evals, got %d", got.PendingEvals)
	}
	if got.ActiveOrders != 2 {
		t.Errorf("expected 2 active orders, got %d", got.ActiveOrders)
	}
	if got.CompletedOrders != 1 {
		t.Errorf("expected 1 completed order, got %d", got.CompletedOrders)
	}
	if got.LowStockItems != 2 {
		t.Errorf("expected 2 low-stock items, got %d", got.LowStockItems)
	}
}

func TestDashboardActivePlusCompletedEqualsTotal(t *testing.T) {
	orders := seed.WorkOrders()
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	var got StatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ActiveOrders+got.CompletedOrders != len(orders) {
		t.Errorf("active (%d) + completed (%d) must equal total (%d)",
			got.ActiveOrders, got.CompletedOrders, len(orders))
	}
}

func TestDashboardStatsWithDate(t *testing.T) {
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?date=2026-09-03", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	var got StatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.TodaysAppointments != 3 {
		t.Errorf("expected 3 appointments on 2026-09-03, got %d", got.TodaysAppointments)
	}
}
