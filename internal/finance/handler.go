package finance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the finance endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a finance handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// parsePeriod reads optional start/end query params. If only one is
// provided the request is rejected; both must come or neither.
func parsePeriod(r *http.Request) (start, end *time.Time, err error) {
	if s := r.URL.Query().Get("start"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, errors.New("invalid start time, use RFC3339 format")
		}
		start = &t
	}
	if e := r.URL.Query().Get("end"); e != "" {
		t, perr := time.Parse(time.RFC3339, e)
		if perr != nil {
			return nil, nil, errors.New("invalid end time, use RFC3339 format")
		}
		end = &t
	}
	if (start == nil) != (end == nil) {
		return nil, nil, errors.New("both start and end must be provided, or neither")
	}
	return start, end, nil
}

// Summary returns aggregated totals for the clinic.
// GET /finance/summary
// Query params:
//   - start: RFC3339 timestamp for period start (optional)
//   - end: RFC3339 timestamp for period end (optional)
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	summary, err := h.repo.GetSummary(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to get finance summary", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		h.logger.Error("failed to encode finance summary", "error", err)
	}
}

// List returns financial movements, most recent first.
// GET /finance/records
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	records, err := h.repo.List(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to list finance records", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// Create registers a financial movement.
// POST /finance/records
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.repo.Insert(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to insert finance record", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}
