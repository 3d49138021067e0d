package tsp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/services/optimization/internal/assignment"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/tsp"
)

// stubOracle answers Table with haversine-derived matrices so the
// pipeline can run without a live OSRM-compatible service.
type stubOracle struct{}

func (stubOracle) Table(_ context.Context, points []geo.Point) ([][]float64, [][]float64, error) {
	n := len(points)
	distKm := make([][]float64, n)
	durMin := make([][]float64, n)
	for i := range points {
		distKm[i] = make([]float64, n)
		durMin[i] = make([]float64, n)
		for j := range points {
			d := geo.Haversine(points[i], points[j])
			distKm[i][j] = d
			durMin[i][j] = d / 30 * 60 // 30 km/h fallback speed
		}
	}
	return distKm, durMin, nil
}

func (stubOracle) Route(_ context.Context, a, b geo.Point) (float64, float64, error) {
	d := geo.Haversine(a, b)
	return d, d / 30 * 60, nil
}

func (stubOracle) RouteFull(_ context.Context, points []geo.Point) (*oracle.RouteFullResult, error) {
	return &oracle.RouteFullResult{}, nil
}

var _ oracle.OracleClient = stubOracle{}

func TestPipelineRefineEmptyOrders(t *testing.T) {
	courier, err := entity.NewCourier("C1", "C1", geo.Point{Lat: 48.85, Lon: 2.35}, 100, 30, 0.5)
	require.NoError(t, err)

	p := tsp.NewPipeline(stubOracle{}, nil, tsp.DefaultGAConfig())
	result, err := p.Refine(context.Background(), courier, nil, assignment.ScenarioNormal)
	require.NoError(t, err)
	assert.Empty(t, result.Stages)
	assert.Len(t, result.Coords, 1)
}

func TestPipelineRefineProducesAllFourStages(t *testing.T) {
	courier, err := entity.NewCourier("C1", "C1", geo.Point{Lat: 48.85, Lon: 2.35}, 100, 30, 0.5)
	require.NoError(t, err)

	orders := []*entity.Order{
		mustOrderAt(t, "O1", 48.86, 2.34),
		mustOrderAt(t, "O2", 48.87, 2.36),
		mustOrderAt(t, "O3", 48.84, 2.37),
		mustOrderAt(t, "O4", 48.83, 2.33),
	}

	cfg := tsp.DefaultGAConfig()
	cfg.PopulationSize = 12
	cfg.Generations = 10

	p := tsp.NewPipeline(stubOracle{}, nil, cfg)
	result, err := p.Refine(context.Background(), courier, orders, assignment.ScenarioNormal)
	require.NoError(t, err)

	assert.Len(t, result.Stages, 4)
	assert.Len(t, result.Final, 5)
	assert.Equal(t, 0, result.Final[0])

	seen := make(map[int]bool)
	for _, idx := range result.Final {
		seen[idx] = true
	}
	assert.Len(t, seen, 5)
}

func mustOrderAt(t *testing.T, id string, lat, lon float64) *entity.Order {
	t.Helper()
	o, err := entity.NewOrder(id, geo.Point{Lat: lat, Lon: lon}, 5, entity.PriorityStandard)
	require.NoError(t, err)
	return o
}
