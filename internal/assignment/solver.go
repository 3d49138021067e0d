package assignment

import (
	"context"
	"math/rand"
	"time"

	"github.com/saan-system/services/optimization/internal/constraints"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
)

// Names of the four interchangeable solver strategies, keyed in
// configuration and carried through to the diagnostic slot.
const (
	NameBranchAndBound      = "branch_and_bound"
	NameClusteredGreedy     = "clustered_greedy"
	NameMultiCriteriaGreedy = "multi_criteria_greedy"
	NameZoneSeededGreedy    = "zone_seeded_greedy"
)

// Solver is the polymorphic contract every assignment strategy
// implements: partition orders across couriers under
// capacity/availability/weather constraints.
type Solver interface {
	Name() string
	Assign(ctx context.Context, couriers []*entity.Courier, orders []*entity.Order, scenario Scenario) (*entity.Assignment, error)
}

// Config carries the shared knobs every solver needs: a seeded PRNG
// for reproducible clustering/seeding, the k-means iteration cap, the
// branch-and-bound deadline, and the rule validators used for
// feasibility checks.
type Config struct {
	Seed                int64
	KMeansMaxIterations int
	BranchAndBoundDeadline time.Duration
	ZoneRadiusKm        float64

	Weather constraints.WeatherValidator
}

// DefaultConfig returns the documented defaults: seed 42, 10 k-means
// iterations, a 10s branch-and-bound deadline.
func DefaultConfig() Config {
	return Config{
		Seed:                   42,
		KMeansMaxIterations:    10,
		BranchAndBoundDeadline: 10 * time.Second,
		ZoneRadiusKm:           5.0,
		Weather:                constraints.NewWeatherValidator(constraints.AlwaysClearSource{}),
	}
}

// NewSolver is the factory keyed by configuration string, returning
// one of the interchangeable solver strategies behind the Solver
// interface.
func NewSolver(name string, cfg Config) (Solver, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	switch name {
	case NameBranchAndBound:
		return &BranchAndBoundSolver{cfg: cfg, rng: rng}, nil
	case NameClusteredGreedy:
		return &ClusteredGreedySolver{cfg: cfg, rng: rng}, nil
	case NameMultiCriteriaGreedy:
		return &MultiCriteriaGreedySolver{cfg: cfg}, nil
	case NameZoneSeededGreedy:
		return &ZoneSeededGreedySolver{cfg: cfg, rng: rng}, nil
	default:
		return nil, apperr.InvalidInput("unknown solver %q", name)
	}
}
