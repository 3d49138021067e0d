package handler

import (
	"net/http"

	"github.com/saan-system/services/optimization/internal/platform/diagnostics"
)

// DiagnosticsHandler exposes the _LAST_OPTIMISATION slot for
// observability: what the most recent optimization run produced,
// without re-running anything.
type DiagnosticsHandler struct {
	slot *diagnostics.Slot
}

// NewDiagnosticsHandler creates a new diagnostics handler.
func NewDiagnosticsHandler(slot *diagnostics.Slot) *DiagnosticsHandler {
	return &DiagnosticsHandler{slot: slot}
}

// LastOptimization returns the most recently stored optimization
// snapshot, or 404 if no run has completed yet since process start.
func (h *DiagnosticsHandler) LastOptimization(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.slot.Load()
	if !ok {
		writeNotFoundError(w, r, "optimization snapshot")
		return
	}
	writeJSONResponse(w, r, http.StatusOK, snap)
}
