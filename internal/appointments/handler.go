package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the calendar endpoints.
type Handler struct {
	repo   Repository
	bridge *realtime.Bridge
	logger *logging.Logger
}

// NewHandler creates a calendar handler. The bridge may be nil.
func NewHandler(repo Repository, bridge *realtime.Bridge, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("appointments: repository is required")
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

// List returns the agenda. With ?date=YYYY-MM-DD it returns that day's
// slots sorted by time of day.
// GET /calendar
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		list []Appointment
		err  error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		if _, perr := time.Parse("2006-01-02", date); perr != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		list, err = h.repo.ListByDate(r.Context(), date)
	} else {
		list, err = h.repo.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Create books a new appointment slot.
// POST /calendar
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		rec, err := realtime.ToRecord(Appointment{
			PatientID:   req.PatientID,
			PatientName: req.PatientName,
			Date:        req.Date,
			Time:        req.Time,
			Type:        req.Type,
			Status:      "scheduled",
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			h.logger.Error("failed to encode appointment", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		delete(rec, "id")

		stored, err := h.bridge.Create(r.Context(), realtime.CollectionAppointments, rec)
		switch {
		case err == nil:
			var remote Appointment
			if err := realtime.FromRecord(stored, &remote); err != nil {
				h.logger.Error("failed to decode stored appointment", "error", err)
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
			h.logger.Error("sync backend rejected appointment create", "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	appt, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// UpdateStatus changes an appointment's status label.
// PATCH /calendar/{appointmentID}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		http.Error(w, "missing appointmentID", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		http.Error(w, "missing status", http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		err := h.bridge.Update(r.Context(), realtime.CollectionAppointments, appointmentID, realtime.Record{
			"status": req.Status,
		})
		switch {
		case err == nil, errors.Is(err, realtime.ErrBackendUnavailable):
		case errors.Is(err, realtime.ErrNotFound):
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		default:
			h.logger.Error("sync backend rejected appointment update", "appointment_id", appointmentID, "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	appt, err := h.repo.SetStatus(r.Context(), appointmentID, req.Status)
	if errors.Is(err, ErrAppointmentNotFound) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update appointment", "appointment_id", appointmentID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}
