package constraints

import (
	"fmt"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

// ScheduleValidator enforces a courier's daily work window.
type ScheduleValidator struct{}

// IsAvailable reports whether atMinute (minutes since midnight) lies in
// courier's work window.
func (ScheduleValidator) IsAvailable(courier *entity.Courier, atMinute int) (bool, string) {
	if geo.InWindow(atMinute, courier.WorkdayStart, courier.WorkdayEnd) {
		return true, ""
	}
	return false, fmt.Sprintf("courier %s not available at %s (window %s-%s)",
		courier.ID, geo.FormatMinutes(atMinute), geo.FormatMinutes(courier.WorkdayStart), geo.FormatMinutes(courier.WorkdayEnd))
}

// InTimeWindow reports whether an order's optional delivery window
// admits an arrival at atMinute. Orders without a window (HasTimeWindow
// false) are always admissible.
func (ScheduleValidator) InTimeWindow(order *entity.Order, atMinute int) (bool, string) {
	if !order.HasTimeWindow() {
		return true, ""
	}
	if geo.InWindow(atMinute, order.TimeWindowStart, order.TimeWindowEnd) {
		return true, ""
	}
	return false, fmt.Sprintf("order %s: arrival %s outside window [%s-%s]",
		order.ID, geo.FormatMinutes(atMinute), geo.FormatMinutes(order.TimeWindowStart), geo.FormatMinutes(order.TimeWindowEnd))
}
