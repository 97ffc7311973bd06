package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"sideline-backend/internal/auth"
	"sideline-backend/internal/config"
	"sideline-backend/internal/database"
	"sideline-backend/internal/db"
	"sideline-backend/internal/email"
	"sideline-backend/internal/events"
	"sideline-backend/internal/handlers"
	"sideline-backend/internal/health"
	h "sideline-backend/internal/http"
	"sideline-backend/internal/middleware"
	"sideline-backend/internal/monitoring"
	"sideline-backend/internal/repositories"
	"sideline-backend/internal/services"
	"sideline-backend/internal/storage"
	"sideline-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer pool.Close()

	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	objects, err := newObjectStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Object storage init failed: %v", err)
	}
	log.Printf("Object storage: %s", objects.Name())

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	jwtManager := auth.NewJWTManager(cfg)
	hub := events.NewHub()

	batchRepo := repositories.NewBatchRepository(pool)
	batchService := services.NewBatchService(batchRepo, objects, hub)
	provider := email.NewResendService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.To)

	router := h.NewRouter(h.RouterDeps{
		Contact:  handlers.NewContactHandler(provider, metrics),
		Auth:     handlers.NewAuthHandler(cfg.Admin, jwtManager),
		Batches:  handlers.NewBatchHandler(batchService, metrics),
		Gallery:  handlers.NewGalleryHandler(batchService),
		Status:   handlers.NewStatusHandler(batchService, hub, "/"),
		Health:   health.NewChecker(pool),
		Hub:      hub,
		AuthMW:   middleware.NewAuthMiddleware(jwtManager),
		Metrics:  metrics,
		Registry: registry,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func newObjectStorage(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case "local":
		return storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	case "s3":
		return storage.NewS3Storage(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
