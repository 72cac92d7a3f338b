package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the assistant endpoint.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates an assistant handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("assistant: service is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// AnalyzeRequest is the free-text prompt body.
type AnalyzeRequest struct {
	Prompt string `json:"prompt"`
}

// AnalyzeResponse carries the generated analysis.
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

// Analyze forwards a prompt to the generative model chain. The response
// is always 200: failures resolve to the fixed fallback text.
// POST /assistant/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	analysis := h.svc.Analyze(r.Context(), req.Prompt)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnalyzeResponse{Analysis: analysis})
}
