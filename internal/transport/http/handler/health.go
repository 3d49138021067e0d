package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker is a narrow dependency-health probe, satisfied by e.g.
// (*sqlx.DB).PingContext or (*redis.Client).Ping(ctx).Err.
type Checker func(ctx context.Context) error

// HealthHandler handles the liveness/readiness endpoints. Readiness
// checks are registered by name so Ready can report per-dependency
// status rather than an always-"ok" placeholder.
type HealthHandler struct {
	startTime time.Time
	checks    map[string]Checker
}

// NewHealthHandler creates a new health handler with the given named
// readiness checks (e.g. "database", "redis").
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		checks:    checks,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status     string            `json:"status"`
	Service    string            `json:"service"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health returns the liveness status of the service: always ok once
// the process is up and serving requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Service:   "optimization",
		Version:   "1.0.0",
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Ready runs every registered readiness check and reports "not_ready"
// if any of them fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.checks))
	status := "ready"
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			status = "not_ready"
			continue
		}
		components[name] = "ok"
	}

	response := ReadinessResponse{
		Status:     status,
		Service:    "optimization",
		Timestamp:  time.Now(),
		Components: components,
	}

	statusCode := http.StatusOK
	if status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
