package main

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erzhan12/habit-reward-go/config"
	authports "github.com/erzhan12/habit-reward-go/internal/auth/ports"
	"github.com/erzhan12/habit-reward-go/internal/common/httputil"
	"github.com/erzhan12/habit-reward-go/internal/common/observability"
	habitports "github.com/erzhan12/habit-reward-go/internal/habits/ports"
)

// RouterConfig contains all dependencies needed for router setup
type RouterConfig struct {
	Config         *config.Config
	AuthHandlers   *authports.Handlers
	HabitHandlers  *habitports.Handlers
	Webhook        *habitports.WebhookHandler
	AuthMiddleware func(http.Handler) http.Handler
	OTELProvider   *observability.Provider
}

// NewRouter creates and configures the main chi router with all routes and middleware
func NewRouter(rc RouterConfig) chi.Router {
	r := chi.NewRouter()

	applyGlobalMiddleware(r, rc.Config)
	mountUtilityEndpoints(r, rc.Config, rc.OTELProvider)
	mountAPIRoutes(r, rc)

	return r
}

// applyGlobalMiddleware adds all global middleware to the router
func applyGlobalMiddleware(r chi.Router, cfg *config.Config) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(corsMiddleware())
	r.Use(observability.HTTPMiddleware(cfg.AppName))
}

// mountUtilityEndpoints adds health, version, metrics, and ping endpoints
func mountUtilityEndpoints(r chi.Router, cfg *config.Config, otelProvider *observability.Provider) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.Success(w, r, map[string]string{
			"status":  "healthy",
			"version": version,
		}, "health check passed")
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		httputil.Success(w, r, map[string]interface{}{
			"version":    version,
			"commit":     commit,
			"build_time": buildTime,
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
			"env":        cfg.AppEnv,
		}, "version information")
	})

	if otelProvider.PrometheusExporter != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"pong"}`))
	})
}

// mountAPIRoutes mounts the /v1 REST surface and the chat webhook.
func mountAPIRoutes(r chi.Router, rc RouterConfig) {
	r.Post("/webhook/telegram", rc.Webhook.ServeHTTP)

	r.Route("/v1", func(v1 chi.Router) {
		protected := chi.NewRouter()
		protected.Use(rc.AuthMiddleware)

		rc.AuthHandlers.Mount(v1, protected)
		rc.HabitHandlers.Mount(protected)

		v1.Mount("/", protected)
	})
}
