package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the inventory endpoints.
type Handler struct {
	repo   Repository
	bridge *realtime.Bridge
	logger *logging.Logger
}

// NewHandler creates an inventory handler. The bridge may be nil.
func NewHandler(repo Repository, bridge *realtime.Bridge, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("inventory: repository is required")
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

// ItemResponse is an inventory line with its derived restock flag.
type ItemResponse struct {
	Item
	NeedsRestock bool `json:"needs_restock"`
}

func toResponse(item Item) ItemResponse {
	return ItemResponse{Item: item, NeedsRestock: item.NeedsRestock()}
}

// List returns all inventory lines with restock flags computed on read.
// GET /inventory
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list inventory", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Restock returns only the lines at or below their minimum.
// GET /inventory/restock
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list inventory", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := []ItemResponse{}
	for _, item := range items {
		if item.NeedsRestock() {
			out = append(out, toResponse(item))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Create registers a new supply line.
// POST /inventory
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		rec, err := realtime.ToRecord(Item{
			Name:        req.Name,
			Category:    req.Category,
			Quantity:    req.Quantity,
			Unit:        req.Unit,
			MinQuantity: req.MinQuantity,
		})
		if err != nil {
			h.logger.Error("failed to encode inventory item", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		delete(rec, "id")

		stored, err := h.bridge.Create(r.Context(), realtime.CollectionInventory, rec)
		switch {
		case err == nil:
			var remote Item
			if err := realtime.FromRecord(stored, &remote); err != nil {
				h.logger.Error("failed to decode stored inventory item", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(toResponse(remote))
			return
		case errors.Is(err, realtime.ErrBackendUnavailable):
			// local only
		default:
			h.logger.Error("sync backend rejected inventory create", "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	item, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create inventory item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toResponse(*item))
}

// Update replaces a supply line's editable fields.
// PUT /inventory/{itemID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		http.Error(w, "missing itemID", http.StatusBadRequest)
		return
	}

	var req UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		rec, err := realtime.ToRecord(req)
		if err != nil {
			h.logger.Error("failed to encode inventory update", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		err = h.bridge.Update(r.Context(), realtime.CollectionInventory, itemID, rec)
		switch {
		case err == nil, errors.Is(err, realtime.ErrBackendUnavailable):
		case errors.Is(err, realtime.ErrNotFound):
			http.Error(w, "item not found", http.StatusNotFound)
			return
		default:
			h.logger.Error("sync backend rejected inventory update", "item_id", itemID, "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	item, err := h.repo.Update(r.Context(), itemID, &req)
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update inventory item", "item_id", itemID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(*item))
}

// AdjustQuantity changes a line's on-hand quantity by a delta.
// PATCH /inventory/{itemID}/quantity
func (h *Handler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		http.Error(w, "missing itemID", http.StatusBadRequest)
		return
	}

	var req AdjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.repo.AdjustQuantity(r.Context(), itemID, req.Delta)
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to adjust quantity", "item_id", itemID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if h.bridge != nil {
		if err := h.bridge.Update(r.Context(), realtime.CollectionInventory, itemID, realtime.Record{
			"quantity": item.Quantity,
		}); err != nil && !errors.Is(err, realtime.ErrBackendUnavailable) {
			h.logger.Warn("failed to sync quantity adjustment", "item_id", itemID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(*item))
}
