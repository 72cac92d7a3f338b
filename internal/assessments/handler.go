package assessments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the scoliosis assessment endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates an assessment handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("assessments: service is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// AssessmentResponse is the record plus its derived values.
type AssessmentResponse struct {
	ScoliosisData
	ProgressionFactor float64  `json:"progression_factor"`
	PainBand          PainBand `json:"pain_band"`
}

func toResponse(d *ScoliosisData) AssessmentResponse {
	return AssessmentResponse{
		ScoliosisData:     *d,
		ProgressionFactor: d.RoundedProgressionFactor(),
		PainBand:          PainBandFor(d.EVAPain),
	}
}

// Get opens a patient's assessment, creating an empty one on first access.
// GET /patients/{patientID}/assessment
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patientID", http.StatusBadRequest)
		return
	}

	d, err := h.svc.Get(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to load assessment", "patient_id", patientID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(d))
}

// Upsert merges submitted fields into the assessment.
// PATCH /patients/{patientID}/assessment
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patientID", http.StatusBadRequest)
		return
	}

	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d, err := h.svc.Upsert(r.Context(), patientID, partial)
	switch {
	case errors.Is(err, ErrAlreadyFinished):
		http.Error(w, "assessment already finalized", http.StatusConflict)
		return
	case errors.Is(err, ErrInvalidEVA):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "invalid field value", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(d))
}

// Finalize closes the assessment and clears the patient's pending flag.
// POST /patients/{patientID}/assessment/finalize
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patientID", http.StatusBadRequest)
		return
	}

	d, err := h.svc.Finalize(r.Context(), patientID)
	if errors.Is(err, ErrAlreadyFinished) {
		http.Error(w, "assessment already finalized", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("failed to finalize assessment", "patient_id", patientID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(d))
}
