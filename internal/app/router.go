package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/skillgenome/skillgenome/internal/adapter/httpserver"
	"github.com/skillgenome/skillgenome/internal/adapter/observability"
	"github.com/skillgenome/skillgenome/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{"*"}
	}
	if s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	// Security & instrumentation middleware
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(cfg.ExtractTimeout + 5*time.Second))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limit mutating endpoints
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		wr.Post("/v1/resume/extract", srv.ExtractHandler)
		wr.Post("/v1/resume/analyze", srv.AnalyzeHandler)
		wr.Post("/v1/readiness", srv.ReadinessHandler)
		wr.Post("/v1/profiles", srv.CreateProfileHandler)
		wr.Delete("/v1/profiles/{id}", srv.DeleteProfileHandler)
		wr.Post("/v1/import/linkedin", srv.ImportLinkedInHandler)
		wr.Post("/v1/import/linkedin/preview", srv.LinkedInPreviewHandler)
		wr.Post("/v1/import/github", srv.ImportGitHubHandler)
	})
	// Read-only endpoints
	r.Get("/v1/roles", srv.RolesHandler)
	r.Get("/v1/profiles/{id}", srv.GetProfileHandler)

	// Health and metrics
	r.Get("/healthz", srv.HealthzHandler)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/readyz", srv.ReadyzHandler)

	// Admin endpoints only exist when credentials are configured
	if cfg.AdminEnabled() {
		r.Group(func(ar chi.Router) {
			ar.Use(httpserver.AdminAuth(cfg))
			ar.Get("/v1/admin/stats", srv.AdminStatsHandler)
		})
	}

	return httpserver.SecurityHeaders(r)
}
