// Package server provides HTTP server management and lifecycle handling for
// the conversion API. It includes server setup, middleware configuration,
// route management, and graceful shutdown with proper error handling and
// logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/config"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/data"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/handlers"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/metrics"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        chi.Router
	dataContainer *data.DataContainer
	converter     handlers.ConversionService
	config        *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, dataContainer *data.DataContainer, converter handlers.ConversionService) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 45 * time.Second, // conversion calls wait on RxNav
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		dataContainer: dataContainer,
		converter:     converter,
		config:        cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// API routes
	s.router.Get("/convert/atc/{code}", handlers.ConvertATC(s.converter))
	s.router.Get("/convert/ndc/{code}", handlers.ConvertNDC(s.converter))
	s.router.Get("/lookup/{code}", handlers.LookupCode(s.dataContainer))
	s.router.Get("/health", handlers.HealthCheck(s.dataContainer))
	s.router.Handle("/metrics", promhttp.Handler())

	// Service descriptor for the root path
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"service": "atc-ndc-conversion-api",
			"endpoints": []string{
				"/convert/atc/{code}",
				"/convert/ndc/{code}",
				"/lookup/{code}",
				"/health",
				"/metrics",
			},
		})
	})
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() chi.Router {
	return s.router
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
