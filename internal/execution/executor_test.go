package execution_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/execution"
	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/tsp"
)

// fixedOracle answers every segment query with a configurable
// distance/duration pair regardless of the endpoints, so tests can
// drive the executor's battery-guard and workday-cutoff branches
// deterministically.
type fixedOracle struct {
	segmentMinutes float64
}

func (f fixedOracle) Table(_ context.Context, points []geo.Point) ([][]float64, [][]float64, error) {
	return nil, nil, nil
}

func (f fixedOracle) Route(_ context.Context, a, b geo.Point) (float64, float64, error) {
	return 1.0, f.segmentMinutes, nil
}

func (f fixedOracle) RouteFull(_ context.Context, points []geo.Point) (*oracle.RouteFullResult, error) {
	return &oracle.RouteFullResult{}, nil
}

var _ oracle.OracleClient = fixedOracle{}

func TestExecutorDeliversWithinWorkday(t *testing.T) {
	depot := geo.Point{Lat: 48.85, Lon: 2.35}
	courier, err := entity.NewCourier("C1", "C1", depot, 100, 30, 0.5)
	require.NoError(t, err)

	coords := []geo.Point{depot, {Lat: 48.86, Lon: 2.36}, {Lat: 48.87, Lon: 2.37}}
	orderIDs := []string{"O1", "O2"}
	route := tsp.Route{0, 1, 2}

	exec := execution.NewExecutor(fixedOracle{segmentMinutes: 10}, nil)
	result, err := exec.Run(context.Background(), courier, route, coords, orderIDs)
	require.NoError(t, err)

	assert.Equal(t, []string{"O1", "O2"}, result.DeliveredOrderIDs)
	assert.Empty(t, result.DeferredOrderIDs)
	assert.Equal(t, 2.0, result.TotalDistanceKm)
	assert.True(t, decimal.NewFromFloat(1.0).Equal(result.Cost))
}

func TestExecutorDefersPastWorkdayEnd(t *testing.T) {
	depot := geo.Point{Lat: 48.85, Lon: 2.35}
	courier, err := entity.NewCourier("C1", "C1", depot, 100, 30, 0.5)
	require.NoError(t, err)
	courier.WorkdayStart = geo.MustParseHHMM("17:50")
	courier.WorkdayEnd = geo.MustParseHHMM("18:00")

	coords := []geo.Point{depot, {Lat: 48.86, Lon: 2.36}, {Lat: 48.87, Lon: 2.37}}
	orderIDs := []string{"O1", "O2"}
	route := tsp.Route{0, 1, 2}

	exec := execution.NewExecutor(fixedOracle{segmentMinutes: 30}, nil)
	result, err := exec.Run(context.Background(), courier, route, coords, orderIDs)
	require.NoError(t, err)

	assert.Empty(t, result.DeliveredOrderIDs)
	assert.Equal(t, []string{"O1", "O2"}, result.DeferredOrderIDs)
}

func TestExecutorInsertsRechargeDetour(t *testing.T) {
	depot := geo.Point{Lat: 48.85, Lon: 2.35}
	courier, err := entity.NewCourier("C1", "C1", depot, 100, 30, 0.5)
	require.NoError(t, err)
	courier.BatteryMaxMinutes = 20
	courier.BatteryRemainingMinutes = 5
	courier.RechargeRate = 2

	station := entity.NewRechargeStation("S1", "Station 1", geo.Point{Lat: 48.851, Lon: 2.351}, 0)

	coords := []geo.Point{depot, {Lat: 48.9, Lon: 2.4}}
	orderIDs := []string{"O1"}
	route := tsp.Route{0, 1}

	exec := execution.NewExecutor(fixedOracle{segmentMinutes: 10}, []*entity.RechargeStation{station})
	result, err := exec.Run(context.Background(), courier, route, coords, orderIDs)
	require.NoError(t, err)

	assert.Len(t, result.RechargeEvents, 1)
	assert.Equal(t, "S1", result.RechargeEvents[0].StationID)
	assert.Equal(t, []string{"O1"}, result.DeliveredOrderIDs)
}

func TestExecutorEmptyRouteReturnsDepotOnly(t *testing.T) {
	depot := geo.Point{Lat: 48.85, Lon: 2.35}
	courier, err := entity.NewCourier("C1", "C1", depot, 100, 30, 0.5)
	require.NoError(t, err)

	exec := execution.NewExecutor(fixedOracle{segmentMinutes: 10}, nil)
	result, err := exec.Run(context.Background(), courier, tsp.Route{0}, []geo.Point{depot}, nil)
	require.NoError(t, err)

	assert.Empty(t, result.DeliveredOrderIDs)
	assert.Equal(t, 0.0, result.TotalDistanceKm)
}
