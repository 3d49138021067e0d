package constraints_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/services/optimization/internal/constraints"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

func mustCourier(t *testing.T, id string, capacity float64) *entity.Courier {
	t.Helper()
	c, err := entity.NewCourier(id, id, geo.Point{Lat: 48.85, Lon: 2.35}, capacity, 30, 0.5)
	require.NoError(t, err)
	return c
}

func mustOrder(t *testing.T, id string, weight float64) *entity.Order {
	t.Helper()
	o, err := entity.NewOrder(id, geo.Point{Lat: 48.86, Lon: 2.36}, weight, entity.PriorityStandard)
	require.NoError(t, err)
	return o
}

func TestCapacityValidatorCanCarry(t *testing.T) {
	courier := mustCourier(t, "L1", 20)
	light := mustOrder(t, "C1", 5)
	heavy := mustOrder(t, "C2", 18)

	cv := constraints.CapacityValidator{}

	ok, msg := cv.CanCarry(courier, []*entity.Order{light})
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = cv.CanCarry(courier, []*entity.Order{light, heavy})
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestScheduleValidatorIsAvailable(t *testing.T) {
	courier := mustCourier(t, "L1", 20)
	courier.WorkdayStart = 8 * 60
	courier.WorkdayEnd = 18 * 60

	sv := constraints.ScheduleValidator{}

	ok, _ := sv.IsAvailable(courier, 12*60)
	assert.True(t, ok)

	ok, msg := sv.IsAvailable(courier, 20*60)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestScheduleValidatorInTimeWindowNoWindowAlwaysAdmissible(t *testing.T) {
	order := mustOrder(t, "C1", 5)
	sv := constraints.ScheduleValidator{}

	ok, msg := sv.InTimeWindow(order, 9*60)
	assert.True(t, ok)
	assert.Empty(t, msg)
}

func TestWeatherValidatorAdmissibleAlwaysClear(t *testing.T) {
	v := constraints.NewWeatherValidator(constraints.AlwaysClearSource{})
	ok, msg := v.Admissible([]geo.Point{{Lat: 48.85, Lon: 2.35}, {Lat: 48.86, Lon: 2.36}})
	assert.True(t, ok)
	assert.NotEmpty(t, msg)
}

func TestWeatherSlowdownFactorKnownAndUnknown(t *testing.T) {
	assert.Equal(t, 2.5, constraints.WeatherSlowdownFactor(constraints.ConditionIce))
	assert.Equal(t, 1.0, constraints.WeatherSlowdownFactor(constraints.Condition("unknown")))
}

func TestValidatorValidateAssignment(t *testing.T) {
	courier := mustCourier(t, "L1", 20)
	order := mustOrder(t, "C1", 5)

	v := constraints.NewValidator(constraints.NewWeatherValidator(constraints.AlwaysClearSource{}))

	ok, errs := v.ValidateAssignment(courier, []*entity.Order{order})
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidatorValidateAssignmentRejectsUnavailableCourier(t *testing.T) {
	courier := mustCourier(t, "L1", 20)
	courier.Status = entity.CourierStatusOffline
	order := mustOrder(t, "C1", 5)

	v := constraints.NewValidator(constraints.NewWeatherValidator(constraints.AlwaysClearSource{}))

	ok, errs := v.ValidateAssignment(courier, []*entity.Order{order})
	assert.False(t, ok)
	assert.NotEmpty(t, errs)
}

func TestValidatorValidateSolution(t *testing.T) {
	courier := mustCourier(t, "L1", 20)
	order := mustOrder(t, "C1", 5)

	assignment := &entity.Assignment{
		CourierOrders: map[string][]string{"L1": {"C1"}},
	}

	v := constraints.NewValidator(constraints.NewWeatherValidator(constraints.AlwaysClearSource{}))
	report := v.ValidateSolution(assignment, []*entity.Courier{courier}, []*entity.Order{order})

	require.Len(t, report.Valid, 1)
	assert.Empty(t, report.Invalid)
	assert.Empty(t, report.Violations)
}

func TestValidatorValidateSolutionFlagsMissingCourier(t *testing.T) {
	order := mustOrder(t, "C1", 5)
	assignment := &entity.Assignment{
		CourierOrders: map[string][]string{"ghost": {"C1"}},
	}

	v := constraints.NewValidator(constraints.NewWeatherValidator(constraints.AlwaysClearSource{}))
	report := v.ValidateSolution(assignment, nil, []*entity.Order{order})

	assert.Empty(t, report.Valid)
	assert.Empty(t, report.Invalid)
	require.Len(t, report.Violations, 1)
}
