// persona-lab - AI Personality Quiz Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/jinsol-dev/persona-lab/internal/api"
	"github.com/jinsol-dev/persona-lab/internal/classifier"
	"github.com/jinsol-dev/persona-lab/internal/config"
	"github.com/jinsol-dev/persona-lab/internal/identity"
	"github.com/jinsol-dev/persona-lab/internal/live"
	"github.com/jinsol-dev/persona-lab/internal/middleware"
	"github.com/jinsol-dev/persona-lab/internal/quiz"
	"github.com/jinsol-dev/persona-lab/internal/stats"
	"github.com/jinsol-dev/persona-lab/internal/store"
	"github.com/jinsol-dev/persona-lab/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Initialize services.
	gemini := classifier.New(classifier.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, logger)
	if cfg.Gemini.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, analysis requests will fail until configured")
	}

	quizzes := quiz.NewManager(gemini, repo)
	hub := live.NewHub()
	statsService := stats.NewService(repo, hub)

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, statsService, cfg)
	quizHandler := api.NewQuizHandler(baseHandler, quizzes)
	analyzeHandler := api.NewAnalyzeHandler(baseHandler, gemini)
	resultHandler := api.NewResultHandler(baseHandler)
	commentHandler := api.NewCommentHandler(baseHandler)
	shareHandler := api.NewShareHandler(baseHandler)
	statsHandler := api.NewStatsHandler(baseHandler, statsService)
	healthHandler := api.NewHealthHandler(repo)
	liveHandler := live.NewHandler(hub, statsService)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	// API routes.
	healthHandler.RegisterHealth(r)
	quizHandler.RegisterRoutes(r)
	analyzeHandler.RegisterRoutes(r)
	resultHandler.RegisterRoutes(r)
	commentHandler.RegisterRoutes(r)
	shareHandler.RegisterRoutes(r)
	statsHandler.RegisterRoutes(r)

	// Live statistics feed.
	r.Get("/ws/stats", liveHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Start the stats rollup and snapshot cleanup worker.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats.StartWorker(ctx, repo, cfg.StatsPeriod)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
