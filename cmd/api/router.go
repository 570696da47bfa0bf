package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gatherly/gatherly/internal/config"
	"github.com/gatherly/gatherly/internal/handler"
	"github.com/gatherly/gatherly/internal/metrics"
	"github.com/gatherly/gatherly/internal/middleware"
)

// authRateLimitScope namespaces the credential endpoints' rate limit buckets.
const authRateLimitScope = "auth"

// routerDeps collects everything the router wires together.
type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	info     *handler.Handler
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	events   *handler.EventHandler
	sessions middleware.TokenVerifier
	limiter  middleware.IPRateLimiter
	metrics  metrics.Recorder
	// prom is nil when metrics are disabled.
	prom *metrics.PrometheusRecorder
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	if d.prom != nil {
		r.Use(d.prom.HTTPMiddleware)
	}
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(cors))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	r.Get("/", d.info.Info)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	if d.prom != nil {
		r.Method(http.MethodGet, "/metrics", d.prom.Handler())
	}

	session := middleware.Session(middleware.SessionConfig{
		Logger:   d.logger,
		Sessions: d.sessions,
		Metrics:  d.metrics,
	})
	authLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:            d.logger,
		Limiter:           d.limiter,
		Enabled:           d.cfg.AuthRateLimitEnabled,
		Scope:             authRateLimitScope,
		RequestsPerMinute: d.cfg.AuthRateLimitPerMin,
		Burst:             d.cfg.AuthRateLimitBurst,
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(authLimit).Post("/register", d.auth.Register)
		r.With(authLimit).Post("/login", d.auth.Login)
		r.With(session).Get("/me", d.auth.Me)
		r.With(session).Post("/logout", d.auth.Logout)
	})

	r.Route("/event", func(r chi.Router) {
		r.Use(session)
		r.Post("/create-event", d.events.Create)
		r.Get("/get-events", d.events.List)
		r.Get("/my-events", d.events.ListMine)
		r.Patch("/events/{id}", d.events.Update)
		r.Delete("/events/{id}", d.events.Delete)
		r.Patch("/events/{id}/join", d.events.Join)
	})

	r.NotFound(d.info.NotFound)
	r.MethodNotAllowed(d.info.MethodNotAllowed)

	return r
}
