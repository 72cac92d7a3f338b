package indicators

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the indicators endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates an indicators handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Latest returns the current value of every tracked indicator.
// GET /indicators
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.Latest(r.Context())
	if err != nil {
		h.logger.Error("failed to load indicators", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Series returns one indicator's history.
// GET /indicators/{name}
func (h *Handler) Series(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "missing indicator name", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.repo.Series(r.Context(), name, limit)
	if err != nil {
		h.logger.Error("failed to load indicator series", "name", name, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// RecordRequest is the request body for recording a KPI value.
type RecordRequest struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Record stores a new KPI value.
// POST /indicators
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.repo.Insert(r.Context(), req.Name, req.Value)
	if errors.Is(err, ErrMissingName) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to record indicator", "name", req.Name, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}
