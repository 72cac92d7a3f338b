package workshop

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the workshop endpoints. Writes follow the same
// remote-first policy as patient writes: bridge first, local repository
// when no backend is configured.
type Handler struct {
	repo   Repository
	bridge *realtime.Bridge
	logger *logging.Logger
}

// NewHandler creates a workshop handler. The bridge may be nil.
func NewHandler(repo Repository, bridge *realtime.Bridge, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("workshop: repository is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		bridge: bridge,
		logger: logger,
	}
}

// BoardColumn is one kanban column with its orders.
type BoardColumn struct {
	Stage    Stage       `json:"stage"`
	Statuses []Status    `json:"statuses"`
	Orders   []WorkOrder `json:"orders"`
}

// BoardResponse is the kanban board plus pipeline stats.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
	Stats   Stats         `json:"stats"`
}

// Board returns the kanban view: orders grouped into the three fixed
// stages, plus active/completed counts.
// GET /workshop/board
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list work orders", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	columns := []BoardColumn{
		{Stage: StageIntake, Statuses: []Status{StatusMeasuring, StatusMolding}, Orders: []WorkOrder{}},
		{Stage: StageProduction, Statuses: []Status{StatusManufacturing, StatusFinishing}, Orders: []WorkOrder{}},
		{Stage: StageCompletion, Statuses: []Status{StatusReady, StatusDelivered}, Orders: []WorkOrder{}},
	}
	for _, o := range orders {
		switch StageOf(o.Status) {
		case StageIntake:
			columns[0].Orders = append(columns[0].Orders, o)
		case StageProduction:
			columns[1].Orders = append(columns[1].Orders, o)
		default:
			columns[2].Orders = append(columns[2].Orders, o)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BoardResponse{Columns: columns, Stats: ComputeStats(orders)})
}

// List returns all work orders.
// GET /workshop/orders
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list work orders", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []WorkOrder{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// Create opens a new work order.
// POST /workshop/orders
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		rec, err := realtime.ToRecord(WorkOrder{
			PatientID:   req.PatientID,
			PatientName: req.PatientName,
			Product:     req.Product,
			Status:      req.Status,
			Deadline:    req.Deadline,
			PriceCents:  req.PriceCents,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			h.logger.Error("failed to encode work order", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		delete(rec, "id")

		stored, err := h.bridge.Create(r.Context(), realtime.CollectionOrders, rec)
		switch {
		case err == nil:
			var remote WorkOrder
			if err := realtime.FromRecord(stored, &remote); err != nil {
				h.logger.Error("failed to decode stored work order", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(remote)
			return
		case errors.Is(err, realtime.ErrBackendUnavailable):
			// local only
		default:
			h.logger.Error("sync backend rejected work order create", "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	order, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create work order", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// UpdateStatus moves a work order through the pipeline.
// PATCH /workshop/orders/{orderID}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "missing orderID", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		err := h.bridge.Update(r.Context(), realtime.CollectionOrders, orderID, realtime.Record{
			"status": string(req.Status),
		})
		switch {
		case err == nil, errors.Is(err, realtime.ErrBackendUnavailable):
			// mirror locally either way
		case errors.Is(err, realtime.ErrNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
			return
		default:
			h.logger.Error("sync backend rejected status update", "order_id", orderID, "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	order, err := h.repo.SetStatus(r.Context(), orderID, req.Status)
	if errors.Is(err, ErrOrderNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update order status", "order_id", orderID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}
