/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests from the dashboard
  5. RateLimit:  Shared token bucket on /api (optional)

ROUTE GROUPS:
  /api/scenarios/*      Saved scenarios and their curve/market/summary
  /api/analyze          Unsaved scenario pricing
  /api/compare          Two-scenario comparison
  /api/presets/*        Built-in scenarios
  /api/holidays/*       Holiday calendar
  /api/meetings         FOMC decision dates
  /api/ws               Live recompute channel
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// RouterConfig tunes the middleware stack. The zero value allows the
// local dashboard dev servers and disables rate limiting.
type RouterConfig struct {
	CORSOrigins []string
	RateLimit   float64 // requests per second; 0 disables
	RateBurst   int
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	corsOrigins := cfg.CORSOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst), h.logger))
		}

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/", h.CreateScenario)
			r.Get("/{id}", h.GetScenario)
			r.Put("/{id}", h.UpdateScenario)
			r.Delete("/{id}", h.DeleteScenario)
			r.Get("/{id}/curve", h.GetCurve)
			r.Get("/{id}/market", h.GetMarket)
			r.Get("/{id}/summary", h.GetSummary)
		})

		r.Post("/analyze", h.Analyze)
		r.Get("/compare", h.Compare)

		// Preset routes
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Get("/template", h.Template)
			r.Post("/{id}/load", h.LoadPreset)
		})

		// Reference data
		r.Get("/holidays", h.ListHolidays)
		r.Post("/holidays/refresh", h.RefreshHolidays)
		r.Get("/meetings", h.ListMeetings)

		r.Get("/ws", h.LiveAnalysis)
		r.Post("/reset", h.ResetDatabase)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>STIR Scenario Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>STIR Scenario Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/scenarios">/api/scenarios</a> - Saved scenarios</li>
<li><a href="/api/scenarios/default/market">/api/scenarios/default/market</a> - Default scenario instruments</li>
<li><a href="/api/presets">/api/presets</a> - Built-in scenarios</li>
<li><a href="/api/holidays">/api/holidays</a> - Holiday calendar</li>
<li><a href="/api/meetings">/api/meetings</a> - FOMC decision dates</li>
</ul>
</body>
</html>`))
	})

	return r
}
