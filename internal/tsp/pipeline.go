package tsp

import (
	"context"

	"github.com/saan-system/services/optimization/internal/assignment"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
)

// Stage names carried on MetaSolution.Algo.
const (
	AlgorithmNearestNeighbor = "nearest_neighbor"
	AlgorithmTwoOpt          = "two_opt"
	AlgorithmThreeOpt        = "three_opt"
	AlgorithmGenetic         = "genetic"
)

// MetaSolution is one refinement stage's route and its matrix-estimated
// total distance, kept for diagnostic comparison regardless of which
// stage ultimately "wins".
type MetaSolution struct {
	Algo              string
	Route             Route
	EstimatedDistance float64
}

// Result is the full pipeline output for one courier's orders: every
// stage's meta-solution (for diagnostics), the canonical final route
// (the GA's output), and the coordinate/order-id indexing needed to
// turn Final back into a delivery sequence.
type Result struct {
	Stages     []MetaSolution
	Final      Route
	Coords     []geo.Point
	OrderIDs   []string
	DistMatrix [][]float64
	DurMatrix  [][]float64
}

// Pipeline runs the four-stage refinement for one courier's assigned
// orders: nearest-neighbor seed, 2-opt, 3-opt, then the
// constraint-aware genetic algorithm.
type Pipeline struct {
	Oracle   oracle.OracleClient
	Stations []*entity.RechargeStation
	GA       GAConfig
}

// NewPipeline builds a Pipeline against the given oracle client and
// the process-wide, read-only recharge station catalog.
func NewPipeline(oracleClient oracle.OracleClient, stations []*entity.RechargeStation, ga GAConfig) *Pipeline {
	return &Pipeline{Oracle: oracleClient, Stations: stations, GA: ga}
}

// Refine builds the coordinate sequence [depot, orders...], requests
// the distance/duration matrices from the oracle in a single call, and
// runs all four refinement stages in order. Returns an empty result
// (just the depot) when there are no orders to route.
func (p *Pipeline) Refine(ctx context.Context, courier *entity.Courier, orders []*entity.Order, scenario assignment.Scenario) (*Result, error) {
	if len(orders) == 0 {
		return &Result{Coords: []geo.Point{courier.DepotLocation}}, nil
	}

	coords := make([]geo.Point, 0, len(orders)+1)
	coords = append(coords, courier.DepotLocation)
	orderIDs := make([]string, len(orders))
	for i, o := range orders {
		coords = append(coords, o.Location)
		orderIDs[i] = o.ID
	}

	distKm, durMin, err := p.Oracle.Table(ctx, coords)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindOracleError, "tsp: table request failed", err)
	}

	nn := NearestNeighbor(distKm)
	nnDist := RouteDistance(nn, distKm)

	twoOptRoute, twoOptDist := TwoOpt(nn, distKm)
	threeOptRoute, threeOptDist := ThreeOpt(twoOptRoute, distKm)

	gaCtx := &gaContext{
		distKm:             distKm,
		durMin:             durMin,
		courier:            courier,
		orders:             orders,
		stations:           p.Stations,
		scenarioMultiplier: scenario.Multiplier(),
	}
	genRoute, _ := Genetic(gaCtx, coords, threeOptRoute, p.GA)
	genDist := RouteDistance(genRoute, distKm)

	return &Result{
		Stages: []MetaSolution{
			{Algo: AlgorithmNearestNeighbor, Route: nn, EstimatedDistance: nnDist},
			{Algo: AlgorithmTwoOpt, Route: twoOptRoute, EstimatedDistance: twoOptDist},
			{Algo: AlgorithmThreeOpt, Route: threeOptRoute, EstimatedDistance: threeOptDist},
			{Algo: AlgorithmGenetic, Route: genRoute, EstimatedDistance: genDist},
		},
		Final:      genRoute,
		Coords:     coords,
		OrderIDs:   orderIDs,
		DistMatrix: distKm,
		DurMatrix:  durMin,
	}, nil
}
