// Package server wires handlers, middleware and routes together. It is the
// composition root: every dependency chain (DB → repository → service →
// handler) is assembled in New, so the rest of the codebase stays free of
// construction logic.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lfournier/datebook/internal/audit"
	"github.com/lfournier/datebook/internal/auth"
	"github.com/lfournier/datebook/internal/handler"
	"github.com/lfournier/datebook/internal/middleware"
	sqliteRepo "github.com/lfournier/datebook/internal/repository/sqlite"
	"github.com/lfournier/datebook/internal/service"
	"github.com/lfournier/datebook/internal/storage/local"
)

// Config holds everything the server needs to start.
type Config struct {
	Port      int
	DBPath    string
	UploadDir string
	JWTSecret string
}

// Server owns the router, the database connection and the HTTP lifecycle.
// The DB is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB

	categories *service.CategoryService
}

// New assembles the full dependency chain and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// SeedCategories upserts the default categories. Called once at startup,
// after New and before Start.
func (s *Server) SeedCategories(ctx context.Context) error {
	return s.categories.Seed(ctx)
}

// setupRoutes configures middleware and routes.
//
// Middleware order matters: request ID and real IP first so the logger can
// use them, recoverer before anything that might panic, then our logger.
// Auth wraps only the /api group; the uploads file server stays public so
// <img> tags work without attaching headers.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	images, err := local.NewImageStore(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}

	auditLog := audit.NewSlogLogger(s.logger)

	dateService := service.NewDateService(sqliteRepo.NewDateStore(s.db), images, auditLog, s.logger)
	dateHandler := handler.NewDateHandler(dateService, s.logger)

	s.categories = service.NewCategoryService(sqliteRepo.NewCategoryStore(s.db), auditLog, s.logger)
	categoryHandler := handler.NewCategoryHandler(s.categories, s.logger)

	// Stored images are served straight off disk under the same path that
	// appears in each date's image URLs.
	fileServer := http.FileServer(http.Dir(images.Dir()))
	s.router.Handle("/uploads/dates/*", http.StripPrefix("/uploads/dates/", fileServer))

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/dates", dateHandler.HandleList)
		r.Post("/dates", dateHandler.HandleCreate)
		r.Put("/dates/{id}", dateHandler.HandleUpdate)
		r.Patch("/dates/{id}/toggle", dateHandler.HandleToggle)
		r.Delete("/dates/{id}", dateHandler.HandleDelete)
		r.Post("/dates/{id}/images", dateHandler.HandleUploadImages)
		r.Delete("/dates/{id}/images/{filename}", dateHandler.HandleDeleteImage)

		r.Get("/categories", categoryHandler.HandleList)
		r.Post("/categories", categoryHandler.HandleCreate)
		r.Put("/categories/{id}", categoryHandler.HandleUpdate)
		r.Delete("/categories/{id}", categoryHandler.HandleDelete)
	})

	return nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
