// Package http assembles the API route tree and the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/logging"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/prometheus"
	"github.com/medguard-uz/medguard/internal/interfaces/http/handlers"
	"github.com/medguard-uz/medguard/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware behind the route tree.
type RouterConfig struct {
	RiskHandler   *handlers.RiskHandler
	HealthHandler *handlers.HealthHandler

	RateLimiter middleware.RateLimiter
	CORS        *middleware.CORSConfig

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, middleware.DefaultRateLimitConfig()))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		h := cfg.RiskHandler
		if h == nil {
			return
		}

		api.Route("/prices", func(pr chi.Router) {
			pr.Post("/check", h.CheckPrice)
			pr.Post("/compare", h.ComparePrices)
		})

		api.Route("/batches", func(br chi.Router) {
			br.Get("/high-risk", h.HighRiskBatches)
			br.Get("/{batchNumber}/risk", h.BatchRisk)
		})

		api.Post("/complaints", h.SubmitComplaint)
		api.Post("/catalog/reload", h.ReloadCatalog)
	})

	return r
}
