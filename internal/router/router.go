// Package router sets up all HTTP routes and middleware chains for the
// event page server. Routes are split into the public page group, which is
// rate limited per client IP, and the JSON API group.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"themeforge/internal/handlers"
	"themeforge/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(public *handlers.Public, api *handlers.API, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	// Public event pages.
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Get("/e/{slug}", public.EventPage)
	})

	// JSON API. Authentication is terminated upstream.
	r.Route("/api", func(r chi.Router) {
		r.NotFound(apiNotFound)
		r.MethodNotAllowed(apiMethodNotAllowed)

		// Theme catalog
		r.Route("/themes", func(r chi.Router) {
			r.Get("/", api.ListThemes)
			r.Post("/", api.CreateTheme)
			r.Get("/{themeID}", api.GetTheme)
			r.Put("/{themeID}", api.UpdateTheme)
			r.Post("/{themeID}/publish", api.PublishTheme)
			r.Post("/{themeID}/retire", api.RetireTheme)
		})

		// Tenants, their entitlements, branding and event creation
		r.Post("/tenants", api.CreateTenant)
		r.Route("/tenants/{tenantID}", func(r chi.Router) {
			r.Get("/themes/{themeID}/ownership", api.Ownership)
			r.Post("/purchases", api.Purchase)
			r.Delete("/entitlements/{themeID}", api.RevokeEntitlement)
			r.Put("/branding", api.UpdateBranding)
			r.Put("/branding/theme", api.SetBrandingTheme)
			r.Post("/events", api.CreateEvent)
		})

		// Events
		r.Route("/events/{eventID}", func(r chi.Router) {
			r.Get("/", api.GetEvent)
			r.Put("/overrides", api.UpdateEventOverrides)
			r.Put("/theme", api.SetEventTheme)
			r.Get("/plan", api.EventPlan)
			r.Post("/preview", api.EventPreview)
		})

		r.Get("/cache/log", api.CacheLog)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"not found","code":"route_not_found"}`))
}

func apiMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"method not allowed","code":"method_not_allowed"}`))
}
