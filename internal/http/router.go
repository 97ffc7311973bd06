package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sideline-backend/internal/events"
	"sideline-backend/internal/handlers"
	"sideline-backend/internal/health"
	"sideline-backend/internal/middleware"
	"sideline-backend/internal/monitoring"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	Contact  *handlers.ContactHandler
	Auth     *handlers.AuthHandler
	Batches  *handlers.BatchHandler
	Gallery  *handlers.GalleryHandler
	Status   *handlers.StatusHandler
	Health   *health.Checker
	Hub      *events.Hub
	AuthMW   *middleware.AuthMiddleware
	Metrics  *monitoring.Metrics
	Registry *prometheus.Registry
}

// NewRouter builds the full route table.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestLogging(deps.Metrics))

	r.HandleFunc("/", handlers.Root).Methods(http.MethodGet)
	r.HandleFunc("/healthz", deps.Health.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", deps.Health.Readyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewRateLimiter(100, time.Minute).Middleware)

	api.HandleFunc("/send-email", deps.Contact.SendEmail).Methods(http.MethodPost)

	loginLimiter := middleware.NewRateLimiter(5, time.Minute)
	api.Handle("/auth/login",
		loginLimiter.Middleware(http.HandlerFunc(deps.Auth.Login))).Methods(http.MethodPost)

	// Public gallery (read-only).
	api.HandleFunc("/sideline", deps.Gallery.List).Methods(http.MethodGet)
	api.HandleFunc("/sideline/dates", deps.Gallery.Dates).Methods(http.MethodGet)
	api.HandleFunc("/sideline/{id}/view", deps.Gallery.View).Methods(http.MethodGet)
	api.HandleFunc("/sideline/{id}/download", deps.Gallery.Download).Methods(http.MethodGet)
	api.HandleFunc("/sideline/{id}/download-all", deps.Gallery.DownloadAll).Methods(http.MethodGet)

	// Admin (JWT-guarded).
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(deps.AuthMW.RequireAdmin)
	admin.HandleFunc("/sideline", deps.Batches.List).Methods(http.MethodGet)
	admin.HandleFunc("/sideline", deps.Batches.Upload).Methods(http.MethodPost)
	admin.HandleFunc("/sideline/bulk-delete", deps.Batches.BulkDelete).Methods(http.MethodPost)
	admin.HandleFunc("/sideline/{id}", deps.Batches.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/status", deps.Status.Status).Methods(http.MethodGet)
	admin.Handle("/events", deps.Hub).Methods(http.MethodGet)

	return r
}
