package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/assessments"
	"github.com/ortocare/clinic-platform/internal/assistant"
	"github.com/ortocare/clinic-platform/internal/dashboard"
	"github.com/ortocare/clinic-platform/internal/finance"
	httpmiddleware "github.com/ortocare/clinic-platform/internal/http/middleware"
	"github.com/ortocare/clinic-platform/internal/indicators"
	"github.com/ortocare/clinic-platform/internal/inventory"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/session"
	"github.com/ortocare/clinic-platform/internal/stream"
	"github.com/ortocare/clinic-platform/internal/workshop"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	SessionHandler    *session.Handler
	SessionService    *session.Service
	DashboardHandler  *dashboard.Handler
	PatientsHandler   *patients.Handler
	AssessmentHandler *assessments.Handler
	WorkshopHandler   *workshop.Handler
	InventoryHandler  *inventory.Handler
	CalendarHandler   *appointments.Handler
	AssistantHandler  *assistant.Handler
	StreamHandler     *stream.Handler

	// Postgres-backed modules (optional, enabled when a database is
	// configured)
	FinanceHandler    *finance.Handler
	IndicatorsHandler *indicators.Handler

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests per second allowed on the login endpoint, per IP.
	LoginRateLimit float64
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.SessionHandler != nil {
			// Non-positive rate falls back to the login defaults.
			public.With(httpmiddleware.RateLimit(cfg.LoginRateLimit, httpmiddleware.DefaultLoginBurst)).
				Post("/auth/login", cfg.SessionHandler.Login)
		}
	})

	// Clinic endpoints, gated by a session token.
	r.Group(func(clinic chi.Router) {
		if cfg.SessionService != nil {
			clinic.Use(httpmiddleware.SessionAuth(cfg.SessionService))
		}

		if cfg.StreamHandler != nil {
			clinic.Get("/stream", cfg.StreamHandler.Connect)
		}
		if cfg.DashboardHandler != nil {
			clinic.Get("/dashboard", cfg.DashboardHandler.Stats)
		}

		if cfg.PatientsHandler != nil {
			clinic.Route("/patients", func(r chi.Router) {
				r.Get("/", cfg.PatientsHandler.List)
				r.Post("/", cfg.PatientsHandler.Create)
				r.Route("/{patientID}", func(r chi.Router) {
					r.Get("/", cfg.PatientsHandler.Get)
					r.Patch("/", cfg.PatientsHandler.Update)
					r.Post("/notes", cfg.PatientsHandler.AddNote)
					if cfg.AssessmentHandler != nil {
						r.Get("/assessment", cfg.AssessmentHandler.Get)
						r.Patch("/assessment", cfg.AssessmentHandler.Upsert)
						r.Post("/assessment/finalize", cfg.AssessmentHandler.Finalize)
					}
				})
			})
		}

		if cfg.WorkshopHandler != nil {
			clinic.Route("/workshop", func(r chi.Router) {
				r.Get("/board", cfg.WorkshopHandler.Board)
				r.Get("/orders", cfg.WorkshopHandler.List)
				r.Post("/orders", cfg.WorkshopHandler.Create)
				r.Patch("/orders/{orderID}/status", cfg.WorkshopHandler.UpdateStatus)
			})
		}

		if cfg.InventoryHandler != nil {
			clinic.Route("/inventory", func(r chi.Router) {
				r.Get("/", cfg.InventoryHandler.List)
				r.Get("/restock", cfg.InventoryHandler.Restock)
				r.Post("/", cfg.InventoryHandler.Create)
				r.Put("/{itemID}", cfg.InventoryHandler.Update)
				r.Patch("/{itemID}/quantity", cfg.InventoryHandler.AdjustQuantity)
			})
		}

		if cfg.CalendarHandler != nil {
			clinic.Route("/calendar", func(r chi.Router) {
				r.Get("/", cfg.CalendarHandler.List)
				r.Post("/", cfg.CalendarHandler.Create)
				r.Patch("/{appointmentID}/status", cfg.CalendarHandler.UpdateStatus)
			})
		}

		if cfg.FinanceHandler != nil {
			clinic.Route("/finance", func(r chi.Router) {
				r.Get("/summary", cfg.FinanceHandler.Summary)
				r.Get("/records", cfg.FinanceHandler.List)
				r.Post("/records", cfg.FinanceHandler.Create)
			})
		}

		if cfg.IndicatorsHandler != nil {
			clinic.Route("/indicators", func(r chi.Router) {
				r.Get("/", cfg.IndicatorsHandler.Latest)
				r.Get("/{name}", cfg.IndicatorsHandler.Series)
				r.Post("/", cfg.IndicatorsHandler.Record)
			})
		}

		if cfg.AssistantHandler != nil {
			clinic.Post("/assistant/analyze", cfg.AssistantHandler.Analyze)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
