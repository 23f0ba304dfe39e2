// Package api implements the backend-for-frontend surface of the dashboard:
// the auth lifecycle routes (login, session, refresh, logout), the proxied
// alert endpoints, and the route-gating middleware.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/alibeddi/securitycenter/upstream"
)

// API holds the dependencies needed by the BFF handlers.
type API struct {
	upstream *upstream.Client
	audit    *auditLogger
	metrics  *MetricsCollector
	limiter  *loginRateLimiter

	// enableRefresh gates whether POST /api/refresh actually calls upstream.
	enableRefresh bool
	// enableValidation switches GET /api/session from presence-only to
	// upstream validation.
	enableValidation bool
	// forceSecure marks cookies Secure regardless of how the request arrived.
	forceSecure bool
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger, a.audit.store)
	}
}

// WithAuditStore persists audit events in addition to logging them.
func WithAuditStore(store AuditStore) Option {
	return func(a *API) {
		a.audit.store = store
	}
}

// WithBackendRefresh enables the upstream call in POST /api/refresh.
func WithBackendRefresh(enabled bool) Option {
	return func(a *API) {
		a.enableRefresh = enabled
	}
}

// WithTokenValidation enables upstream validation in GET /api/session.
func WithTokenValidation(enabled bool) Option {
	return func(a *API) {
		a.enableValidation = enabled
	}
}

// WithForceSecureCookies marks auth cookies Secure unconditionally.
func WithForceSecureCookies(enabled bool) Option {
	return func(a *API) {
		a.forceSecure = enabled
	}
}

// WithMetrics attaches a metrics collector. Register its collectors with a
// prometheus registry separately.
func WithMetrics(m *MetricsCollector) Option {
	return func(a *API) {
		a.metrics = m
	}
}

// New creates a new API instance backed by the given upstream client.
func New(up *upstream.Client, opts ...Option) *API {
	a := &API{
		upstream: up,
		limiter:  newLoginRateLimiter(),
	}
	a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)), nil)
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = newMetricsCollector()
	}
	return a
}

// Router returns a chi.Router with all BFF routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(a.metrics.middleware)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/redoc",
	}, nil))

	r.Post("/login", a.Login)
	r.Get("/session", a.Session)
	r.Post("/refresh", a.Refresh)
	r.Post("/logout", a.Logout)

	r.Get("/alerts", a.ListAlerts)
	r.Delete("/decisions/{id}", a.DeleteDecision)
	r.Get("/audit", a.ListAuditEvents)

	return r
}
