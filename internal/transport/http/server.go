package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/saan-system/services/optimization/internal/orchestrator"
	"github.com/saan-system/services/optimization/internal/platform/diagnostics"
	"github.com/saan-system/services/optimization/internal/platform/logger"
	"github.com/saan-system/services/optimization/internal/transport/http/handler"
)

// Server represents the HTTP server
type Server struct {
	server             *http.Server
	optimizeHandler    *handler.OptimizeHandler
	diagnosticsHandler *handler.DiagnosticsHandler
	healthHandler      *handler.HealthHandler
}

// NewServer creates a new HTTP server bound to the orchestrator, the
// diagnostic slot, and a set of named readiness checks (e.g.
// "database", "redis").
func NewServer(
	port string,
	optimizer *orchestrator.Optimizer,
	slot *diagnostics.Slot,
	checks map[string]handler.Checker,
	log logger.Logger,
) *Server {
	// Create handlers
	optimizeHandler := handler.NewOptimizeHandler(optimizer, log)
	diagnosticsHandler := handler.NewDiagnosticsHandler(slot)
	healthHandler := handler.NewHealthHandler(checks)

	// Create router and setup routes
	router := mux.NewRouter()
	setupRoutes(router, optimizeHandler, diagnosticsHandler, healthHandler)

	// Create server instance
	server := &Server{
		optimizeHandler:    optimizeHandler,
		diagnosticsHandler: diagnosticsHandler,
		healthHandler:      healthHandler,
	}

	// Create HTTP server
	server.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	fmt.Printf("Starting HTTP server on port %s\n", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	fmt.Println("Stopping HTTP server...")
	return s.server.Shutdown(ctx)
}
