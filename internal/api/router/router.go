package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/wolfman30/dental-directory/internal/appointments"
	"github.com/wolfman30/dental-directory/internal/directory"
	httpmiddleware "github.com/wolfman30/dental-directory/internal/http/middleware"
	"github.com/wolfman30/dental-directory/internal/siteconfig"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	DirectoryHandler    *directory.Handler
	AppointmentsHandler *appointments.Handler
	SiteConfig          *siteconfig.Service
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Per-IP limit on appointment requests; zero disables it.
	AppointmentRateLimit  int
	AppointmentRateWindow time.Duration
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
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

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.DirectoryHandler != nil {
			api.Get("/dentists", cfg.DirectoryHandler.ListDentists)
			api.Get("/dentists/{id}", cfg.DirectoryHandler.GetDentist)
		}
		if cfg.AppointmentsHandler != nil {
			window := cfg.AppointmentRateWindow
			if window <= 0 {
				window = time.Minute
			}
			api.With(httpmiddleware.RateLimit(cfg.AppointmentRateLimit, window)).
				Post("/appointments/request", cfg.AppointmentsHandler.RequestAppointment)
		}
		if cfg.SiteConfig != nil {
			api.Method(http.MethodGet, "/site-config", cfg.SiteConfig)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
