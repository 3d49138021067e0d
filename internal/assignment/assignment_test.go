package assignment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/services/optimization/internal/assignment"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

func mustCourier(t *testing.T, id string, depot geo.Point, capacity, speed, cost float64) *entity.Courier {
	t.Helper()
	c, err := entity.NewCourier(id, id, depot, capacity, speed, cost)
	require.NoError(t, err)
	return c
}

func mustOrder(t *testing.T, id string, loc geo.Point, weight float64, priority entity.Priority) *entity.Order {
	t.Helper()
	o, err := entity.NewOrder(id, loc, weight, priority)
	require.NoError(t, err)
	return o
}

func TestNewSolverUnknownName(t *testing.T) {
	_, err := assignment.NewSolver("does_not_exist", assignment.DefaultConfig())
	assert.Error(t, err)
}

func TestNewSolverKnownNames(t *testing.T) {
	for _, name := range []string{
		assignment.NameBranchAndBound,
		assignment.NameClusteredGreedy,
		assignment.NameMultiCriteriaGreedy,
		assignment.NameZoneSeededGreedy,
	} {
		s, err := assignment.NewSolver(name, assignment.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}
}

// Minimal feasible: one courier, one order, plenty of capacity.
func TestClusteredGreedyMinimalFeasible(t *testing.T) {
	depot := geo.Point{Lat: 48.8566, Lon: 2.3522}
	courier := mustCourier(t, "L1", depot, 100, 30, 0.5)
	order := mustOrder(t, "C1", geo.Point{Lat: 48.86, Lon: 2.35}, 10, entity.PriorityUrgent)

	s, err := assignment.NewSolver(assignment.NameClusteredGreedy, assignment.DefaultConfig())
	require.NoError(t, err)

	result, err := s.Assign(context.Background(), []*entity.Courier{courier}, []*entity.Order{order}, assignment.ScenarioNormal)
	require.NoError(t, err)

	assert.Empty(t, result.Unassigned)
	assert.Equal(t, []string{"C1"}, result.OrdersFor("L1"))
}

// Capacity overflow: both orders are urgent, so multi-criteria greedy
// assigns the heavier one first and leaves the other unassigned.
func TestMultiCriteriaGreedyCapacityOverflow(t *testing.T) {
	depot := geo.Point{Lat: 48.8566, Lon: 2.3522}
	courier := mustCourier(t, "L1", depot, 100, 30, 0.5)
	a := mustOrder(t, "A", geo.Point{Lat: 48.86, Lon: 2.35}, 50, entity.PriorityUrgent)
	b := mustOrder(t, "B", geo.Point{Lat: 48.87, Lon: 2.36}, 60, entity.PriorityUrgent)

	s, err := assignment.NewSolver(assignment.NameMultiCriteriaGreedy, assignment.DefaultConfig())
	require.NoError(t, err)

	result, err := s.Assign(context.Background(), []*entity.Courier{courier}, []*entity.Order{a, b}, assignment.ScenarioNormal)
	require.NoError(t, err)

	assert.Len(t, result.Unassigned, 1)
	assert.Len(t, result.OrdersFor("L1"), 1)
}

// B&B on a 2x2 instance where the diagonal pairing strictly beats the
// anti-diagonal: each courier should bind to its nearest order.
func TestBranchAndBoundDiagonalIsOptimal(t *testing.T) {
	courierA := mustCourier(t, "A", geo.Point{Lat: 0, Lon: 0}, 100, 30, 0.5)
	courierB := mustCourier(t, "B", geo.Point{Lat: 10, Lon: 10}, 100, 30, 0.5)

	orderNearA := mustOrder(t, "near-a", geo.Point{Lat: 0.01, Lon: 0.01}, 1, entity.PriorityStandard)
	orderNearB := mustOrder(t, "near-b", geo.Point{Lat: 10.01, Lon: 10.01}, 1, entity.PriorityStandard)

	cfg := assignment.DefaultConfig()
	s, err := assignment.NewSolver(assignment.NameBranchAndBound, cfg)
	require.NoError(t, err)

	result, err := s.Assign(context.Background(),
		[]*entity.Courier{courierA, courierB},
		[]*entity.Order{orderNearA, orderNearB},
		assignment.ScenarioNormal)
	require.NoError(t, err)

	assert.Equal(t, []string{"near-a"}, result.OrdersFor("A"))
	assert.Equal(t, []string{"near-b"}, result.OrdersFor("B"))
	assert.Empty(t, result.Unassigned)
}

func TestScenarioMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, assignment.ScenarioNormal.Multiplier())
	assert.Equal(t, 1.3, assignment.ScenarioPeak.Multiplier())
	assert.Equal(t, 1.7, assignment.ScenarioIncident.Multiplier())
}

func TestEmptyInputsProduceEmptyAssignment(t *testing.T) {
	s, err := assignment.NewSolver(assignment.NameClusteredGreedy, assignment.DefaultConfig())
	require.NoError(t, err)

	result, err := s.Assign(context.Background(), nil, nil, assignment.ScenarioNormal)
	require.NoError(t, err)
	assert.Empty(t, result.CourierOrders)
	assert.Empty(t, result.Unassigned)
}
