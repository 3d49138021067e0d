// Package execution walks a courier's refined TSP route (internal/tsp)
// using live oracle segment queries — not the matrix estimates the
// refinement stage planned against — applying the battery guard and
// the workday cutoff. RealizedRoute keeps an append-only event log,
// since a realized route is one execution rather than a stateful
// aggregate a caller starts/completes/cancels.
package execution

import (
	"context"
	"math"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
	"github.com/saan-system/services/optimization/internal/tsp"
)

// Executor walks a courier's final route against the live oracle,
// inserting recharge detours and truncating at the workday cutoff.
type Executor struct {
	Oracle   oracle.OracleClient
	Stations []*entity.RechargeStation
}

// NewExecutor builds an Executor against the given oracle client and
// the process-wide, read-only recharge station catalog.
func NewExecutor(oracleClient oracle.OracleClient, stations []*entity.RechargeStation) *Executor {
	return &Executor{Oracle: oracleClient, Stations: stations}
}

// Run walks route (as built by tsp.Pipeline.Refine: index 0 is the
// depot, indices 1..n correspond 1:1 with orderIDs) and returns the
// RealizedRoute split into delivered and deferred orders.
func (e *Executor) Run(ctx context.Context, courier *entity.Courier, route tsp.Route, coords []geo.Point, orderIDs []string) (*entity.RealizedRoute, error) {
	result := entity.NewRealizedRoute(courier.ID, courier.DepotLocation, courier.WorkdayStart)
	if len(route) <= 1 {
		result.FinalizeCost(courier.CostPerKm)
		return result, nil
	}

	prev := coords[route[0]]
	currentTime := float64(courier.WorkdayStart)
	battery := courier.BatteryRemainingMinutes

	for i := 1; i < len(route); i++ {
		idx := route[i]
		next := coords[idx]
		orderID := orderIDs[idx-1]

		segDist, segTime, err := e.Oracle.Route(ctx, prev, next)
		if err != nil {
			return nil, apperr.OracleError(err, "execution: segment query failed")
		}

		if courier.IsBatteryConstrained() && segTime > battery {
			station := e.nearestStation(prev)
			if station != nil {
				detourDist, detourTime, err := e.Oracle.Route(ctx, prev, station.Location)
				if err != nil {
					return nil, apperr.OracleError(err, "execution: recharge detour query failed")
				}

				battery -= detourTime
				if battery < 0 {
					battery = 0
				}
				rechargeTime := (courier.BatteryMaxMinutes - battery) / nonZero(courier.RechargeRate)

				event := entity.RechargeEvent{
					StationID:       station.ID,
					StationName:     station.Name,
					Location:        station.Location,
					RechargeMinutes: rechargeTime,
				}
				currentTime += detourTime + rechargeTime
				result.AppendRecharge(event, detourDist, detourTime, int(currentTime))
				battery = courier.BatteryMaxMinutes

				prev = station.Location
				segDist, segTime, err = e.Oracle.Route(ctx, prev, next)
				if err != nil {
					return nil, apperr.OracleError(err, "execution: post-recharge segment query failed")
				}
			}
		}

		if currentTime+segTime > float64(courier.WorkdayEnd) {
			for j := i; j < len(route); j++ {
				result.Defer(orderIDs[route[j]-1])
			}
			break
		}

		currentTime += segTime
		if courier.IsBatteryConstrained() {
			battery -= segTime
			if battery < 0 {
				battery = 0
			}
		}
		result.AppendDelivery(orderID, next, segDist, segTime, int(currentTime))
		prev = next
	}

	result.FinalizeCost(courier.CostPerKm)

	if geometry, err := e.Oracle.RouteFull(ctx, result.GPSPoints); err == nil {
		result.SetDisplayGeometry(geometry.Geometry)
	}

	return result, nil
}

func (e *Executor) nearestStation(from geo.Point) *entity.RechargeStation {
	var best *entity.RechargeStation
	bestDist := math.Inf(1)
	for _, st := range e.Stations {
		d := geo.Haversine(from, st.Location)
		if d < bestDist {
			bestDist = d
			best = st
		}
	}
	return best
}

func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
