// Package constraints holds the pluggable validators the assignment
// and routing stages consult before committing an order to a courier:
// capacity, schedule availability, and weather admissibility. Each
// validator is a pure predicate returning (bool, reason).
package constraints

import (
	"fmt"

	"github.com/saan-system/services/optimization/internal/domain/entity"
)

// CapacityValidator enforces the weight-only capacity rule; volume is
// intentionally not tracked as a separate dimension (see DESIGN.md).
type CapacityValidator struct{}

// CanAdd reports whether newOrder fits alongside currentOrders within
// courier's capacity.
func (CapacityValidator) CanAdd(courier *entity.Courier, currentOrders []*entity.Order, newOrder *entity.Order) (bool, string) {
	total := newOrder.WeightKg
	for _, o := range currentOrders {
		total += o.WeightKg
	}
	if total > courier.CapacityKg {
		return false, fmt.Sprintf("courier %s: weight exceeded: %.1f kg > %.1f kg", courier.ID, total, courier.CapacityKg)
	}
	return true, ""
}

// CanCarry reports whether the full order set's combined weight fits
// within courier's capacity, without adding to an existing load.
func (CapacityValidator) CanCarry(courier *entity.Courier, orders []*entity.Order) (bool, string) {
	var total float64
	for _, o := range orders {
		total += o.WeightKg
	}
	if total > courier.CapacityKg {
		return false, fmt.Sprintf("courier %s: weight exceeded: %.1f kg > %.1f kg", courier.ID, total, courier.CapacityKg)
	}
	return true, ""
}
