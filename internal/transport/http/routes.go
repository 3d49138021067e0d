package http

import (
	"github.com/gorilla/mux"

	"github.com/saan-system/services/optimization/internal/platform/metrics"
	"github.com/saan-system/services/optimization/internal/transport/http/handler"
	"github.com/saan-system/services/optimization/internal/transport/http/middleware"
)

// setupRoutes configures all HTTP routes for the optimization service.
func setupRoutes(
	router *mux.Router,
	optimizeHandler *handler.OptimizeHandler,
	diagnosticsHandler *handler.DiagnosticsHandler,
	healthHandler *handler.HealthHandler,
) {
	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())

	// Health check endpoints
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/ready", healthHandler.Ready).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/optimize", optimizeHandler.Optimize).Methods("POST")
	api.HandleFunc("/diagnostics/last", diagnosticsHandler.LastOptimization).Methods("GET")
}
