package orchestrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/services/optimization/internal/assignment"
	"github.com/saan-system/services/optimization/internal/constraints"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/infrastructure/events"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/orchestrator"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
	"github.com/saan-system/services/optimization/internal/platform/diagnostics"
	"github.com/saan-system/services/optimization/internal/platform/logger"
)

// stubOracle answers Table/Route with haversine-derived estimates at a
// fixed 30 km/h, so the pipeline and executor can run end-to-end
// without a live OSRM-compatible service.
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
			durMin[i][j] = d / 30 * 60
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

// fakeCourierRepo and fakeOrderRepo are in-memory repository.* doubles,
// recording write-backs for assertion.
type fakeCourierRepo struct {
	couriers []*entity.Courier
}

func (f *fakeCourierRepo) GetByID(_ context.Context, id string) (*entity.Courier, error) {
	for _, c := range f.couriers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeCourierRepo) GetAvailable(_ context.Context) ([]*entity.Courier, error) {
	return f.couriers, nil
}
func (f *fakeCourierRepo) UpdateStatus(_ context.Context, id string, status entity.CourierStatus) error {
	return nil
}
func (f *fakeCourierRepo) UpdateBatteryLevel(_ context.Context, id string, levelKwh float64) error {
	return nil
}

type assignOrdersCall struct {
	CourierID string
	OrderIDs  []string
	Status    entity.OrderStatus
}

type fakeOrderRepo struct {
	orders []*entity.Order
	calls  []assignOrdersCall
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}
func (f *fakeOrderRepo) GetPending(_ context.Context) ([]*entity.Order, error) {
	return f.orders, nil
}
func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	return nil
}
func (f *fakeOrderRepo) AssignOrders(_ context.Context, courierID string, orderIDs []string, status entity.OrderStatus) error {
	f.calls = append(f.calls, assignOrdersCall{CourierID: courierID, OrderIDs: orderIDs, Status: status})
	return nil
}

type fakeEventPublisher struct {
	published []events.RouteOptimizedEvent
}

func (f *fakeEventPublisher) PublishRouteOptimized(_ context.Context, runID string, payload events.RouteOptimizedEvent) error {
	f.published = append(f.published, payload)
	return nil
}

func newTestCourier(t *testing.T, id string, depot geo.Point) *entity.Courier {
	t.Helper()
	c, err := entity.NewCourier(id, id, depot, 100, 30, 0.5)
	require.NoError(t, err)
	return c
}

func newTestOrder(t *testing.T, id string, loc geo.Point, priority entity.Priority) *entity.Order {
	t.Helper()
	o, err := entity.NewOrder(id, loc, 5, priority)
	require.NoError(t, err)
	return o
}

func TestOptimizeEndToEnd(t *testing.T) {
	depot := geo.Point{Lat: 48.85, Lon: 2.35}
	courierRepo := &fakeCourierRepo{couriers: []*entity.Courier{
		newTestCourier(t, "C1", depot),
	}}
	orderRepo := &fakeOrderRepo{orders: []*entity.Order{
		newTestOrder(t, "O1", geo.Point{Lat: 48.86, Lon: 2.36}, entity.PriorityStandard),
		newTestOrder(t, "O2", geo.Point{Lat: 48.87, Lon: 2.37}, entity.PriorityStandard),
	}}
	eventPub := &fakeEventPublisher{}
	slot := diagnostics.NewSlot()
	validator := constraints.NewValidator(constraints.NewWeatherValidator(constraints.AlwaysClearSource{}))
	log := logger.New("error", "text")

	cfg := orchestrator.DefaultConfig()
	cfg.SolverName = assignment.NameMultiCriteriaGreedy

	opt := orchestrator.NewOptimizer(courierRepo, orderRepo, nil, stubOracle{}, eventPub, slot, validator, nil, log, cfg)

	result, err := opt.Optimize(context.Background(), assignment.ScenarioNormal)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, assignment.NameMultiCriteriaGreedy, result.SolverName)
	require.Len(t, result.CourierResults, 1)
	assert.Equal(t, "C1", result.CourierResults[0].CourierID)
	require.NotNil(t, result.CourierResults[0].Realized)
	assert.ElementsMatch(t, []string{"O1", "O2"}, result.CourierResults[0].Realized.DeliveredOrderIDs)

	assert.Len(t, eventPub.published, 1)
	assert.Equal(t, 2, eventPub.published[0].DeliveredOrders)

	snap, ok := slot.Load()
	require.True(t, ok)
	assert.Equal(t, result.RunID, snap.RunID)

	assert.NotEmpty(t, orderRepo.calls)
}

func TestOptimizeNoCouriersFailsWithInsufficientData(t *testing.T) {
	courierRepo := &fakeCourierRepo{}
	orderRepo := &fakeOrderRepo{orders: []*entity.Order{
		newTestOrder(t, "O1", geo.Point{Lat: 48.86, Lon: 2.36}, entity.PriorityStandard),
	}}
	slot := diagnostics.NewSlot()
	validator := constraints.NewValidator(constraints.NewWeatherValidator(constraints.AlwaysClearSource{}))
	log := logger.New("error", "text")

	cfg := orchestrator.DefaultConfig()
	cfg.SolverName = assignment.NameMultiCriteriaGreedy

	opt := orchestrator.NewOptimizer(courierRepo, orderRepo, nil, stubOracle{}, nil, slot, validator, nil, log, cfg)

	result, err := opt.Optimize(context.Background(), assignment.ScenarioNormal)
	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInsufficientData, appErr.Kind)

	_, ok := slot.Load()
	assert.False(t, ok)
}

func TestOptimizeNoOrdersFailsWithInsufficientData(t *testing.T) {
	courierRepo := &fakeCourierRepo{couriers: []*entity.Courier{
		newTestCourier(t, "L1", geo.Point{Lat: 48.85, Lon: 2.35}),
	}}
	orderRepo := &fakeOrderRepo{}
	slot := diagnostics.NewSlot()
	validator := constraints.NewValidator(constraints.NewWeatherValidator(constraints.AlwaysClearSource{}))
	log := logger.New("error", "text")

	cfg := orchestrator.DefaultConfig()
	cfg.SolverName = assignment.NameMultiCriteriaGreedy

	opt := orchestrator.NewOptimizer(courierRepo, orderRepo, nil, stubOracle{}, nil, slot, validator, nil, log, cfg)

	result, err := opt.Optimize(context.Background(), assignment.ScenarioNormal)
	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInsufficientData, appErr.Kind)
}
