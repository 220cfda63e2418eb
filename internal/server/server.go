// Package server is the composition root of the journal's HTTP API: it
// opens the store, builds the services and handlers, and mounts the routes.
//
// WIRING:
//
//	config → sqlite.DB ─┐
//	                    ├→ JournalService → JournalHandler
//	config → fatsecret ─┴→ SearchService  → SearchHandler
//
// The server owns the store and closes it after the HTTP listener has
// drained.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/food-journal/internal/config"
	"github.com/sakif/food-journal/internal/fatsecret"
	"github.com/sakif/food-journal/internal/handler"
	"github.com/sakif/food-journal/internal/middleware"
	sqliteRepo "github.com/sakif/food-journal/internal/repository/sqlite"
	"github.com/sakif/food-journal/internal/service"
)

// Server serves the journal's JSON API and owns the store it is wired to.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the store at cfg.DBPath and wires every route. A store that
// cannot be opened is returned as apperror.ErrStorageUnavailable.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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
	s.setupRoutes()

	return s, nil
}

// setupRoutes mounts:
//
//	GET    /api/token             provider access token
//	GET    /api/foodSearch        provider food search
//	POST   /api/foodSearch/log    log a search result
//	GET    /api/log               entries for ?date=
//	POST   /api/log               log a manual entry
//	DELETE /api/log/{id}          remove an entry
//	GET    /api/goal              active goal (defaults when unset)
//	PUT    /api/goal              create or overwrite the goal
//	GET    /api/goals             stored goal records
//	POST   /api/goals             create the goal (409 if one exists)
//	PUT    /api/goals/{id}        overwrite a goal by id
//	GET    /api/summary           totals and progress for ?date=
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	provider := fatsecret.New(s.config.FatSecret, s.logger)

	journalService := service.NewJournalService(s.db, s.logger)
	searchService := service.NewSearchService(provider, journalService, s.logger)

	journalHandler := handler.NewJournalHandler(journalService, s.logger)
	searchHandler := handler.NewSearchHandler(searchService, journalService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/token", searchHandler.HandleToken)
		r.Get("/foodSearch", searchHandler.HandleFoodSearch)
		r.Post("/foodSearch/log", searchHandler.HandleLogSearchResult)

		r.Get("/log", journalHandler.HandleListEntries)
		r.Post("/log", journalHandler.HandleLogFood)
		r.Delete("/log/{id}", journalHandler.HandleDeleteEntry)

		r.Get("/goal", journalHandler.HandleGetGoal)
		r.Put("/goal", journalHandler.HandleSaveGoal)
		r.Get("/goals", journalHandler.HandleListGoals)
		r.Post("/goals", journalHandler.HandleAddGoal)
		r.Put("/goals/{id}", journalHandler.HandleEditGoal)

		r.Get("/summary", journalHandler.HandleSummary)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to the configured shutdown timeout and closes the store.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.FatSecret.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
