package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the patient management endpoints. Writes go to the
// sync bridge first; when no backend is configured the bridge reports
// realtime.ErrBackendUnavailable and the handler keeps the change in
// the local repository only.
type Handler struct {
	repo   Repository
	bridge *realtime.Bridge
	logger *logging.Logger
}

// NewHandler creates a patient handler. The bridge may be nil when the
// deployment runs purely on local data.
func NewHandler(repo Repository, bridge *realtime.Bridge, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("patients: repository is required")
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

// List returns all patients.
// GET /patients
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Patient{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Get returns a single patient by id.
// GET /patients/{patientID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patientID", http.StatusBadRequest)
		return
	}

	patient, err := h.repo.GetByID(r.Context(), patientID)
	if errors.Is(err, ErrPatientNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get patient", "patient_id", patientID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

// Create registers a new patient. The record is written to the sync
// backend first; when no backend is configured it lands in the local
// repository only.
// POST /patients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		rec, err := realtime.ToRecord(Patient{
			Name:              req.Name,
			Email:             req.Email,
			Phone:             req.Phone,
			BirthDate:         req.BirthDate,
			Condition:         req.Condition,
			Categories:        req.Categories,
			Notes:             []ClinicalNote{},
			PendingPhysioEval: true,
			CreatedAt:         time.Now().UTC(),
		})
		if err != nil {
			h.logger.Error("failed to encode patient", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		delete(rec, "id") // backend assigns ids for remote records

		stored, err := h.bridge.Create(r.Context(), realtime.CollectionPatients, rec)
		switch {
		case err == nil:
			var remote Patient
			if err := realtime.FromRecord(stored, &remote); err != nil {
				h.logger.Error("failed to decode stored patient", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(remote)
			return
		case errors.Is(err, realtime.ErrBackendUnavailable):
			// fall through to the local repository
		default:
			h.logger.Error("sync backend rejected patient create", "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	patient, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create patient", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patient)
}

// Update applies a partial change to a patient.
// PATCH /patients/{patientID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patientID", http.StatusBadRequest)
		return
	}

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Empty() {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	if h.bridge != nil {
		rec, err := realtime.ToRecord(req)
		if err != nil {
			h.logger.Error("failed to encode patient update", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		err = h.bridge.Update(r.Context(), realtime.CollectionPatients, patientID, rec)
		switch {
		case err == nil:
			// remote accepted; mirror locally so reads stay fresh
		case errors.Is(err, realtime.ErrBackendUnavailable):
			// local only
		case errors.Is(err, realtime.ErrNotFound):
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		default:
			h.logger.Error("sync backend rejected patient update", "patient_id", patientID, "error", err)
			http.Error(w, "sync backend unavailable", http.StatusBadGateway)
			return
		}
	}

	patient, err := h.repo.Update(r.Context(), patientID, &req)
	if errors.Is(err, ErrPatientNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update patient", "patient_id", patientID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

// AddNote appends a dated clinical note to the patient history.
// POST /patients/{patientID}/notes
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patientID", http.StatusBadRequest)
		return
	}

	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patient, err := h.repo.AppendNote(r.Context(), patientID, &req)
	if errors.Is(err, ErrPatientNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to append note", "patient_id", patientID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if h.bridge != nil {
		if rec, encErr := realtime.ToRecord(struct {
			Notes []ClinicalNote `json:"notes"`
		}{patient.Notes}); encErr == nil {
			if err := h.bridge.Update(r.Context(), realtime.CollectionPatients, patientID, rec); err != nil &&
				!errors.Is(err, realtime.ErrBackendUnavailable) {
				h.logger.Warn("failed to sync clinical note", "patient_id", patientID, "error", err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patient)
}
