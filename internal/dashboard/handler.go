// Package dashboard aggregates the headline numbers of the clinic:
// production pipeline counts, patient flags and low-stock supplies.
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/inventory"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/workshop"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// PatientReader is the patient slice the dashboard reads.
type PatientReader interface {
	List(ctx context.Context) ([]patients.Patient, error)
}

// OrderReader is the work order slice the dashboard reads.
type OrderReader interface {
	List(ctx context.Context) ([]workshop.WorkOrder, error)
}

// InventoryReader is the inventory slice the dashboard reads.
type InventoryReader interface {
	List(ctx context.Context) ([]inventory.Item, error)
}

// AppointmentReader is the agenda slice the dashboard reads.
type AppointmentReader interface {
	ListByDate(ctx context.Context, date string) ([]appointments.Appointment, error)
}

// Handler serves the dashboard stats endpoint.
type Handler struct {
	patients     PatientReader
	orders       OrderReader
	inventory    InventoryReader
	appointments AppointmentReader
	logger       *logging.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(p PatientReader, o OrderReader, i InventoryReader, a AppointmentReader, logger *logging.Logger) *Handler {
	if p == nil || o == nil || i == nil || a == nil {
		panic("dashboard: all readers are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		patients:     p,
		orders:       o,
		inventory:    i,
		appointments: a,
		logger:       logger,
	}
}

// StatsResponse is the dashboard headline numbers.
type StatsResponse struct {
	PatientCount      int `json:"patient_count"`
	PendingEvals      int `json:"pending_physio_evals"`
	ActiveOrders      int `json:"active_orders"`
	CompletedOrders   int `json:"completed_orders"`
	LowStockItems     int `json:"low_stock_items"`
	TodaysAppointments int `json:"todays_appointments,omitempty"`
}

// Stats returns the aggregate counts. With ?date=YYYY-MM-DD it also
// counts that day's appointments.
// GET /dashboard
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pts, err := h.patients.List(ctx)
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	orders, err := h.orders.List(ctx)
	if err != nil {
		h.logger.Error("failed to list work orders", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	items, err := h.inventory.List(ctx)
	if err != nil {
		h.logger.Error("failed to list inventory", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	stats := StatsResponse{PatientCount: len(pts)}
	for i := range pts {
		if pts[i].PendingPhysioEval {
			stats.PendingEvals++
		}
	}
	orderStats := workshop.ComputeStats(orders)
	stats.ActiveOrders = orderStats.Active
	stats.CompletedOrders = orderStats.Completed
	for i := range items {
		if items[i].NeedsRestock() {
			stats.LowStockItems++
		}
	}

	if date := r.URL.Query().Get("date"); date != "" {
		agenda, err := h.appointments.ListByDate(ctx, date)
		if err != nil {
			h.logger.Error("failed to list appointments", "date", date, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		stats.TodaysAppointments = len(agenda)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
