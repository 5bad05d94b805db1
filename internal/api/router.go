// Package api provides the HTTP API for StrideLoop.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/strideloop/strideloop/internal/api/handler"
	"github.com/strideloop/strideloop/internal/api/middleware"
	"github.com/strideloop/strideloop/internal/favorites"
	"github.com/strideloop/strideloop/internal/generator"
	"github.com/strideloop/strideloop/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	Generator        generator.Generator
	FavoritesService *favorites.Service
	ProviderRegistry *resilience.Registry
	Pool             *pgxpool.Pool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "strideloop-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON request bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ProviderRegistry, cfg.Pool)
	routesHandler := handler.NewRoutesHandler(cfg.Generator, cfg.FavoritesService, cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	generateRateLimit := middleware.RateLimitByDevice(middleware.GenerateRateLimit) // 10 req/min
	standardRateLimit := middleware.RateLimitByDevice(middleware.StandardRateLimit) // 100 req/min
	statusRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit)      // 30 req/min, no device ID on ops

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public). Health and readiness stay unmetered for
		// probes; status hits the database, so it gets a per-IP budget.
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(statusRateLimit).Get("/status", opsHandler.SystemStatus)
		})

		// Generation endpoint - expensive upstream calls, strict rate limiting
		r.With(middleware.DeviceID, generateRateLimit).Post("/routes:generate", routesHandler.GenerateRoute)

		// Saved routes (device-scoped)
		r.Route("/routes", func(r chi.Router) {
			r.Use(middleware.DeviceID)
			r.Use(standardRateLimit)
			r.Get("/", routesHandler.ListRoutes)
			r.Post("/", routesHandler.SaveRoute)
			r.Route("/{routeId}", func(r chi.Router) {
				r.Get("/", routesHandler.GetRoute)
				r.Patch("/", routesHandler.UpdateRoute)
				r.Delete("/", routesHandler.DeleteRoute)
				r.Get("/gpx", routesHandler.ExportGPX)
			})
		})
	})

	return r
}
