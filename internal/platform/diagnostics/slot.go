// Package diagnostics holds the process-wide "last optimization"
// diagnostic slot: a single-writer/multi-reader, RWMutex-guarded,
// last-writer-wins snapshot of the most recent optimization run, kept
// for operator inspection and never consulted by the optimization path
// itself.
package diagnostics

import (
	"sync"
	"time"

	"github.com/saan-system/services/optimization/internal/constraints"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/tsp"
)

// CourierResult bundles one courier's refinement and execution output
// for diagnostic inspection.
type CourierResult struct {
	CourierID     string
	MetaSolutions []tsp.MetaSolution
	Realized      *entity.RealizedRoute
}

// Snapshot is one completed optimization run, exactly what
// Optimizer.Optimize hands to the diagnostic slot after aggregation.
type Snapshot struct {
	RunID            string
	GeneratedAt      time.Time
	Scenario         string
	SolverName       string
	Assignment       *entity.Assignment
	CourierResults   []CourierResult
	ValidationReport *constraints.Report
}

// Slot is a sync.RWMutex-guarded, last-writer-wins holder for the most
// recent Snapshot. Safe for concurrent use by any number of readers and
// writers.
type Slot struct {
	mu   sync.RWMutex
	last *Snapshot
}

// NewSlot builds an empty Slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Store replaces the held snapshot. Last writer wins; there is no
// merging or ordering guarantee across concurrent runs.
func (s *Slot) Store(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
}

// Load returns the most recently stored snapshot, or (nil, false) if
// none has been stored yet.
func (s *Slot) Load() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, false
	}
	return s.last, true
}

var lastOptimisation = NewSlot()

// Default returns the process-wide "_LAST_OPTIMISATION" slot.
func Default() *Slot {
	return lastOptimisation
}
