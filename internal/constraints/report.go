package constraints

import (
	"fmt"

	"github.com/saan-system/services/optimization/internal/domain/entity"
)

// Validator bundles the three rule validators behind the single entry
// point the orchestrator calls.
type Validator struct {
	Capacity CapacityValidator
	Schedule ScheduleValidator
	Weather  WeatherValidator

	MaxOrdersPerCourier int
}

// NewValidator builds a Validator with the default max-orders-per-courier
// cap (20, matching the source's config default).
func NewValidator(weather WeatherValidator) *Validator {
	return &Validator{
		Capacity:            CapacityValidator{},
		Schedule:            ScheduleValidator{},
		Weather:             weather,
		MaxOrdersPerCourier: 20,
	}
}

// ValidateAssignment checks that a courier can be handed this order set
// at all: capacity, availability, and the max-orders cap. Ported from
// valider_affectation.
func (v *Validator) ValidateAssignment(courier *entity.Courier, orders []*entity.Order) (bool, []string) {
	var errs []string

	if ok, msg := v.Capacity.CanCarry(courier, orders); !ok {
		errs = append(errs, msg)
	}
	if courier.Status != entity.CourierStatusAvailable {
		errs = append(errs, fmt.Sprintf("courier %s not available", courier.ID))
	}
	if len(orders) > v.MaxOrdersPerCourier {
		errs = append(errs, fmt.Sprintf("too many orders: %d > %d", len(orders), v.MaxOrdersPerCourier))
	}

	return len(errs) == 0, errs
}

// RouteValidation is one courier's pass/fail result within a Report.
type RouteValidation struct {
	CourierID string
	Valid     bool
	Errors    []string
}

// Report is the diagnostic bundle produced by ValidateSolution, ported
// from valider_solution_complete: a full-solution pass is informational
// only, never part of the pipeline's success/failure path.
type Report struct {
	Valid        []RouteValidation
	Invalid      []RouteValidation
	Violations   []string
	Warnings     []string
}

// ValidateSolution checks every courier's realized assignment against
// capacity and the order-count cap, producing a diagnostic Report. It
// never blocks the orchestrator; callers inspect it for observability.
func (v *Validator) ValidateSolution(assignment *entity.Assignment, couriers []*entity.Courier, orders []*entity.Order) *Report {
	report := &Report{}

	courierByID := make(map[string]*entity.Courier, len(couriers))
	for _, c := range couriers {
		courierByID[c.ID] = c
	}
	orderByID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		orderByID[o.ID] = o
	}

	for courierID, orderIDs := range assignment.CourierOrders {
		courier, ok := courierByID[courierID]
		if !ok {
			report.Violations = append(report.Violations, fmt.Sprintf("courier %s not found", courierID))
			continue
		}

		var ordersForCourier []*entity.Order
		for _, id := range orderIDs {
			if o, ok := orderByID[id]; ok {
				ordersForCourier = append(ordersForCourier, o)
			}
		}

		valid, errs := v.ValidateAssignment(courier, ordersForCourier)
		rv := RouteValidation{CourierID: courierID, Valid: valid, Errors: errs}
		if valid {
			report.Valid = append(report.Valid, rv)
		} else {
			report.Invalid = append(report.Invalid, rv)
			report.Violations = append(report.Violations, errs...)
		}
	}

	return report
}
