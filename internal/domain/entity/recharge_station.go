package entity

import "github.com/saan-system/services/optimization/internal/geo"

// RechargeStation is a fixed point where an electric courier can
// restore full battery during its route. Loaded at startup from the
// station catalog and treated as read-only during a run.
type RechargeStation struct {
	ID       string
	Name     string
	Location geo.Point

	// ChargeMinutes is the catalog's stated full-recharge duration. The
	// executor and the GA fitness do not read it: they compute recharge
	// time from the courier's battery level and RechargeRate.
	ChargeMinutes int
}

// NewRechargeStation constructs a RechargeStation.
func NewRechargeStation(id, name string, location geo.Point, chargeMinutes int) *RechargeStation {
	return &RechargeStation{
		ID:            id,
		Name:          name,
		Location:      location,
		ChargeMinutes: chargeMinutes,
	}
}
