package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/saan-system/services/optimization/internal/geo"
)

// RechargeEvent records one battery-guard detour inserted by the route
// executor.
type RechargeEvent struct {
	StationID       string
	StationName     string
	Location        geo.Point
	RechargeMinutes float64
}

// MetaSolution is one stage's output from the TSP refinement pipeline
// (nearest-neighbor, 2-opt, 3-opt, or genetic), carried forward purely
// for diagnostic comparison — it plays no part in any invariant.
type MetaSolution struct {
	Algorithm           string
	EstimatedDistanceKm float64
	OracleDistanceKm    float64
	OracleDurationMin   float64
	Cost                float64
	Geometry            [][2]float64 // (lon, lat) vertices
	OrderedIDs          []string
}

// RealizedRoute is the output of the route executor: the courier's
// actual walk of the refined tour after applying the battery guard and
// the workday cutoff, split into delivered and deferred orders.
type RealizedRoute struct {
	CourierID string

	DeliveredOrderIDs []string
	DeferredOrderIDs  []string

	TotalDistanceKm      float64
	TotalDurationMinutes float64

	// Cost is the billable monetary cost of the realized distance,
	// kept as decimal.Decimal rather than float64 since it is the one
	// figure in this package that represents money rather than a
	// physical or solver quantity.
	Cost decimal.Decimal

	GPSPoints      []geo.Point
	RechargeEvents []RechargeEvent

	// DisplayGeometry is a diagnostic road-following geometry for the
	// realized route, fetched from the oracle's route_full over
	// GPSPoints. Never part of any invariant.
	DisplayGeometry [][2]float64

	// EffectiveEndMinute is the courier's clock time when the tour
	// stopped, minutes since midnight.
	EffectiveEndMinute int

	MetaSolutions []MetaSolution

	GeneratedAt time.Time
}

// NewRealizedRoute constructs an empty RealizedRoute seeded at the
// courier's depot, ready for the executor to append to.
func NewRealizedRoute(courierID string, depot geo.Point, startMinute int) *RealizedRoute {
	return &RealizedRoute{
		CourierID:          courierID,
		GPSPoints:          []geo.Point{depot},
		EffectiveEndMinute: startMinute,
		GeneratedAt:        time.Now(),
	}
}

// AppendDelivery records a completed delivery leg and bumps the
// running totals.
func (r *RealizedRoute) AppendDelivery(orderID string, loc geo.Point, segDistanceKm, segMinutes float64, arrivalMinute int) {
	r.GPSPoints = append(r.GPSPoints, loc)
	r.DeliveredOrderIDs = append(r.DeliveredOrderIDs, orderID)
	r.TotalDistanceKm += segDistanceKm
	r.TotalDurationMinutes += segMinutes
	r.EffectiveEndMinute = arrivalMinute
}

// AppendRecharge records an inserted recharge-station detour.
func (r *RealizedRoute) AppendRecharge(event RechargeEvent, segDistanceKm, segMinutes float64, arrivalMinute int) {
	r.GPSPoints = append(r.GPSPoints, event.Location)
	r.RechargeEvents = append(r.RechargeEvents, event)
	r.TotalDistanceKm += segDistanceKm
	r.TotalDurationMinutes += segMinutes + event.RechargeMinutes
	r.EffectiveEndMinute = arrivalMinute
}

// Defer records an order the executor could not deliver within the
// courier's workday.
func (r *RealizedRoute) Defer(orderID string) {
	r.DeferredOrderIDs = append(r.DeferredOrderIDs, orderID)
}

// FinalizeCost computes the monetary cost of the realized distance at
// the courier's per-km rate.
func (r *RealizedRoute) FinalizeCost(costPerKm float64) {
	r.Cost = decimal.NewFromFloat(r.TotalDistanceKm).Mul(decimal.NewFromFloat(costPerKm)).Round(2)
}

// SetDisplayGeometry attaches the oracle-fetched road-following
// geometry for the realized GPS trace.
func (r *RealizedRoute) SetDisplayGeometry(geometry [][2]float64) {
	r.DisplayGeometry = geometry
}
