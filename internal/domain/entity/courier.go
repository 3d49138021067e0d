package entity

import (
	"errors"
	"time"

	"github.com/saan-system/services/optimization/internal/geo"
)

// CourierStatus mirrors availability for a new optimization run.
type CourierStatus string

const (
	CourierStatusAvailable CourierStatus = "available"
	CourierStatusBusy      CourierStatus = "busy"
	CourierStatusOffline   CourierStatus = "offline"
)

// Courier is a delivery agent available to carry orders from a shared
// depot during one working day. Everything is immutable within one
// optimization run except BatteryRemainingMinutes.
type Courier struct {
	ID     string
	Name   string
	Status CourierStatus

	DepotLocation geo.Point

	CapacityKg float64
	SpeedKmh   float64 // fallback used only when the oracle is unavailable
	CostPerKm  float64

	// WorkdayStart/WorkdayEnd are minutes since midnight bounding when
	// the courier may be on the road.
	WorkdayStart int
	WorkdayEnd   int

	// Battery is modeled as minutes of autonomy, not distance: a
	// segment is affordable iff its travel duration does not exceed
	// BatteryRemainingMinutes. RechargeRate is minutes of autonomy
	// recovered per minute plugged in at a station.
	BatteryMaxMinutes       float64
	BatteryRemainingMinutes float64
	RechargeRate            float64

	UpdatedAt time.Time
}

// Domain errors for Courier.
var (
	ErrCourierInvalidID       = errors.New("courier id cannot be empty")
	ErrCourierInvalidCapacity = errors.New("courier capacity must be positive")
	ErrCourierInvalidSpeed    = errors.New("courier speed must be positive")
	ErrCourierInvalidWindow   = errors.New("courier workday end must be after start")
	ErrCourierInvalidBattery  = errors.New("courier battery remaining must be within [0, battery_max]")
)

// NewCourier constructs a Courier with a full battery and available
// status, an 08:00-18:00 workday, and no battery constraint
// (BatteryMaxMinutes == 0 means unconstrained — a combustion vehicle).
func NewCourier(id, name string, depot geo.Point, capacityKg, speedKmh, costPerKm float64) (*Courier, error) {
	c := &Courier{
		ID:            id,
		Name:          name,
		Status:        CourierStatusAvailable,
		DepotLocation: depot,
		CapacityKg:    capacityKg,
		SpeedKmh:      speedKmh,
		CostPerKm:     costPerKm,
		WorkdayStart:  geo.MustParseHHMM("08:00"),
		WorkdayEnd:    geo.MustParseHHMM("18:00"),
		UpdatedAt:     time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the invariants a Courier must satisfy before it can
// be offered to the assignment solvers.
func (c *Courier) Validate() error {
	if c.ID == "" {
		return ErrCourierInvalidID
	}
	if c.CapacityKg <= 0 {
		return ErrCourierInvalidCapacity
	}
	if c.SpeedKmh <= 0 {
		return ErrCourierInvalidSpeed
	}
	if c.WorkdayEnd <= c.WorkdayStart {
		return ErrCourierInvalidWindow
	}
	if c.BatteryRemainingMinutes < 0 || c.BatteryRemainingMinutes > c.BatteryMaxMinutes {
		return ErrCourierInvalidBattery
	}
	return nil
}

// IsBatteryConstrained reports whether this courier is subject to
// battery/recharge simulation at all. A zero BatteryMaxMinutes means an
// unconstrained (e.g. combustion-engine) vehicle.
func (c *Courier) IsBatteryConstrained() bool {
	return c.BatteryMaxMinutes > 0
}

// CanAffordSegment reports whether the courier's remaining battery
// covers a segment of the given duration. Always true for
// battery-unconstrained couriers.
func (c *Courier) CanAffordSegment(segmentMinutes float64) bool {
	if !c.IsBatteryConstrained() {
		return true
	}
	return segmentMinutes <= c.BatteryRemainingMinutes
}

// DepleteBattery deducts minutes of autonomy spent traveling and bumps
// UpdatedAt. No-op for battery-unconstrained couriers. Clamped to zero.
func (c *Courier) DepleteBattery(minutes float64) {
	if !c.IsBatteryConstrained() {
		return
	}
	c.BatteryRemainingMinutes -= minutes
	if c.BatteryRemainingMinutes < 0 {
		c.BatteryRemainingMinutes = 0
	}
	c.UpdatedAt = time.Now()
}

// RechargeMinutesNeeded returns how long, in minutes, a full recharge
// from the current level would take.
func (c *Courier) RechargeMinutesNeeded() float64 {
	if c.RechargeRate <= 0 {
		return 0
	}
	return (c.BatteryMaxMinutes - c.BatteryRemainingMinutes) / c.RechargeRate
}

// Recharge restores the courier to full battery, as happens after a
// recharge-station detour.
func (c *Courier) Recharge() {
	c.BatteryRemainingMinutes = c.BatteryMaxMinutes
	c.UpdatedAt = time.Now()
}

// Clone returns a deep copy for per-run working snapshots; the
// orchestrator must never mutate a Courier owned by the repository.
func (c *Courier) Clone() *Courier {
	cp := *c
	return &cp
}
