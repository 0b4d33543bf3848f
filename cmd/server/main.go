package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/digicollect/server/internal/collector"
	"github.com/digicollect/server/internal/config"
	"github.com/digicollect/server/internal/cutter"
	"github.com/digicollect/server/internal/handlers"
	custommw "github.com/digicollect/server/internal/middleware"
	"github.com/digicollect/server/internal/observability"
	"github.com/digicollect/server/internal/repository"
	"github.com/digicollect/server/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.Settings{
		ServiceName:    "digicollect-server",
		ServiceVersion: serviceVersion,
		Environment:    cfg.Telemetry.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Printf("Warning: telemetry initialization failed: %v", err)
	}

	// Initialize database
	var db *sql.DB
	usePostgres := cfg.UsePostgres()
	if usePostgres {
		log.Println("Using PostgreSQL database")
		db, err = repository.NewPostgresDB(cfg.DatabaseURL)
	} else {
		log.Println("Using SQLite database")
		db, err = repository.NewSQLiteDB(cfg.DatabasePath)
	}
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	collectionStore := repository.NewCollectionStore(db, usePostgres, userRepo)

	// Content pipeline
	normalizer := collector.NewNormalizer(collector.Options{
		FetchTimeout:         time.Duration(cfg.Collector.FetchTimeoutSeconds) * time.Second,
		MaxConcurrentFetches: cfg.Collector.MaxConcurrentFetches,
		UserAgent:            cfg.Collector.UserAgent,
	})
	defer normalizer.Close()

	extractor := cutter.NewExtractor()

	var renderer cutter.Renderer
	ffmpeg := cutter.NewFFmpegRenderer(cfg.Renderer.FFmpegBinary, cfg.Renderer.OutputDir)
	if ffmpeg.Available() {
		clipRenderer := cutter.NewClipRenderer(ffmpeg, cutter.NewImageRenderer(nil, cfg.Renderer.OutputDir))
		renderer = cutter.NewRetryingRenderer(clipRenderer, cfg.Renderer.MaxAttempts)
	} else {
		log.Println("ffmpeg not found, clips will be stored without rendered artifacts")
	}

	// Metrics
	metrics, err := observability.NewBusinessMetrics()
	if err != nil {
		log.Printf("Warning: business metrics unavailable: %v", err)
		metrics = nil
	}
	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		log.Printf("Warning: HTTP metrics unavailable: %v", err)
	}

	// Services
	userService := services.NewUserService(userRepo)
	collectionService := services.NewCollectionService(collectionStore, metrics)
	contentService := services.NewContentService(normalizer, extractor, renderer, collectionStore, metrics)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	userHandler := handlers.NewUserHandler(userService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	contentHandler := handlers.NewContentHandler(contentService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware("digicollect-server"))
	if httpMetrics != nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	}
	r.Use(custommw.APIKeyAuth(userRepo, cfg.Security.APIKeyHeader, []string{
		"/api/register",
		"/api/shared/*",
		"/api/browse/*",
		"/api/categories",
	}))

	// Routes
	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/api/health", healthHandler.HealthCheck)

	r.Post("/api/register", userHandler.Register)
	r.Get("/api/me", userHandler.GetMe)
	r.Put("/api/me/tier", userHandler.ChangeTier)

	r.Get("/api/categories", collectionHandler.GetCategories)
	r.Get("/api/browse/trending", collectionHandler.GetTrending)
	r.Get("/api/browse/search", collectionHandler.Search)
	r.Get("/api/shared/{token}", collectionHandler.GetSharedCollection)

	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/", collectionHandler.ListCollections)
		r.Post("/", collectionHandler.CreateCollection)
		r.Get("/{id}", collectionHandler.GetCollection)
		r.Put("/{id}", collectionHandler.UpdateCollection)
		r.Delete("/{id}", collectionHandler.DeleteCollection)
		r.Put("/{id}/visibility", collectionHandler.UpdateVisibility)
		r.Delete("/{id}/items/{itemId}", collectionHandler.RemoveItem)
		r.Post("/{id}/follow", collectionHandler.Follow)
		r.Delete("/{id}/follow", collectionHandler.Unfollow)
	})

	r.Route("/api/content", func(r chi.Router) {
		r.Post("/normalize", contentHandler.Normalize)
		r.Post("/clip", contentHandler.SaveClip)
	})

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("DigiCollect Server starting on %s", cfg.ServerAddress)
		log.Printf("Clip output path: %s", cfg.Renderer.OutputDir)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("Telemetry shutdown error: %v", err)
		}
	}

	log.Println("Server stopped")
}
