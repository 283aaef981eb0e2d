// Package http assembles the chi router and server of the scoring API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SAScore/internal/interfaces/http/handlers"
	"github.com/turtacn/SAScore/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil members are skipped.
type RouterConfig struct {
	ScoreHandler  *handlers.ScoreHandler
	HealthHandler *handlers.HealthHandler

	Logger         logging.Logger
	Metrics        *prom.ScoringMetrics
	MetricsHandler http.Handler
	RateLimiter    middleware.RateLimiter
	CORSOrigins    []string
}

// NewRouter constructs the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(middleware.CORSConfigFromOrigins(cfg.CORSOrigins)))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, middleware.DefaultRateLimitConfig()))
	}

	if h := cfg.HealthHandler; h != nil {
		r.Get("/healthz", h.Liveness)
		r.Get("/healthz/detail", h.Detailed)
		r.Get("/readyz", h.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerScoreRoutes(api, cfg.ScoreHandler)
		registerAdminRoutes(api, cfg.ScoreHandler)
	})

	return r
}

// registerScoreRoutes mounts the read-only scoring endpoints.
func registerScoreRoutes(r chi.Router, h *handlers.ScoreHandler) {
	if h == nil {
		return
	}
	r.Post("/sascore", h.Score)
	r.Post("/sascore/batch", h.ScoreBatch)
	r.Post("/fragments", h.Fragments)
	r.Get("/model", h.Model)
}

// registerAdminRoutes mounts model lifecycle endpoints.
func registerAdminRoutes(r chi.Router, h *handlers.ScoreHandler) {
	if h == nil {
		return
	}
	// Flat paths: a /model sub-router would shadow GET /model.
	r.Post("/model/build", h.BuildModel)
	r.Post("/model/load", h.LoadModel)
	r.Post("/model/rebuild", h.RebuildModel)
	r.Post("/corpus/ingest", h.IngestCorpus)
}

//Personal.AI order the ending
