package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Handler serves the login endpoint.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a session handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("session: service is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// LoginRequest is the login form body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login establishes a session.
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.Login(req.Email, req.Password)
	if errors.Is(err, ErrWrongPassword) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "incorrect password"})
		return
	}
	if err != nil {
		h.logger.Error("failed to issue session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess)
}
