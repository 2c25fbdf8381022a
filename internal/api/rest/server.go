package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fortuna/games/internal/collect"
	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, collector *collect.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "rest")

	handler := NewHandler(collector, logger)

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           NewRouter(handler, logger, NewMetrics()),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter wires the routes and middleware around handler.
func NewRouter(handler *Handler, logger *slog.Logger, metrics *Metrics) *mux.Router {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(metrics.Middleware)

	// Health check and metrics
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Year ranges
	api.HandleFunc("/games/info", handler.GetInfoRange).Methods("GET")
	api.HandleFunc("/games/competitors", handler.GetCompetitorsRange).Methods("GET")
	api.HandleFunc("/games/scores", handler.GetScoresRange).Methods("GET")

	// Single year
	api.HandleFunc("/games/{year:[0-9]+}/leaderboard", handler.GetLeaderboardPage).Methods("GET")
	api.HandleFunc("/games/{year:[0-9]+}/info", handler.GetInfo).Methods("GET")

	return router
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
