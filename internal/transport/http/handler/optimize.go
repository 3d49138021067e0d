package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saan-system/services/optimization/internal/assignment"
	"github.com/saan-system/services/optimization/internal/orchestrator"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
	"github.com/saan-system/services/optimization/internal/platform/logger"
)

// OptimizeHandler exposes the orchestrator's single entry point over
// HTTP, one usecase per handler.
type OptimizeHandler struct {
	optimizer *orchestrator.Optimizer
	log       logger.Logger
}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler(optimizer *orchestrator.Optimizer, log logger.Logger) *OptimizeHandler {
	return &OptimizeHandler{optimizer: optimizer, log: log}
}

type optimizeRequest struct {
	Scenario string `json:"scenario"`
}

// Optimize triggers one full assign->refine->execute run for the
// requested scenario (defaulting to "normal" if omitted) and returns
// the resulting OptimizationResult.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequestError(w, r, "invalid request body: "+err.Error())
			return
		}
	}
	if req.Scenario == "" {
		req.Scenario = string(assignment.ScenarioNormal)
	}

	scenario, ok := assignment.ParseScenario(req.Scenario)
	if !ok {
		writeBadRequestError(w, r, "unknown scenario: "+req.Scenario)
		return
	}

	result, err := h.optimizer.Optimize(r.Context(), scenario)
	if err != nil {
		h.log.Errorf("optimize handler: run failed: %v", err)
		writeOptimizeError(w, r, err)
		return
	}

	writeJSONResponse(w, r, http.StatusOK, result)
}

func writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindInvalidInput:
			writeBadRequestError(w, r, appErr.Message)
			return
		case apperr.KindInsufficientData:
			writeErrorResponse(w, r, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA", appErr.Message, "")
			return
		case apperr.KindSolverTimeout:
			writeErrorResponse(w, r, http.StatusGatewayTimeout, "SOLVER_TIMEOUT", appErr.Message, "")
			return
		}
	}
	writeInternalServerError(w, r, err)
}
