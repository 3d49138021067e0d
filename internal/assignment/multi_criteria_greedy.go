package assignment

import (
	"context"
	"sort"

	"github.com/saan-system/services/optimization/internal/constraints"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

// MultiCriteriaGreedySolver sorts orders by (priority asc, weight
// desc) and, for each, picks the feasible courier minimizing a blend
// of distance, priority penalty, and relative weight load.
type MultiCriteriaGreedySolver struct {
	cfg Config
}

func (s *MultiCriteriaGreedySolver) Name() string { return NameMultiCriteriaGreedy }

func (s *MultiCriteriaGreedySolver) Assign(_ context.Context, couriers []*entity.Courier, orders []*entity.Order, scenario Scenario) (*entity.Assignment, error) {
	result := entity.NewAssignment(s.Name())
	if len(couriers) == 0 || len(orders) == 0 {
		for _, o := range orders {
			result.MarkUnassigned(o.ID)
		}
		return result, nil
	}

	sorted := append([]*entity.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].WeightKg > sorted[j].WeightKg
	})

	courierLoad := make(map[string][]*entity.Order, len(couriers))
	for _, c := range couriers {
		courierLoad[c.ID] = nil
	}

	schedule := constraints.ScheduleValidator{}

	for _, o := range sorted {
		var best *entity.Courier
		bestCost := -1.0

		for _, c := range couriers {
			if c.Status != entity.CourierStatusAvailable {
				continue
			}
			if !canAdd(c, courierLoad[c.ID], o) {
				continue
			}
			if ok, _ := schedule.IsAvailable(c, c.WorkdayStart); !ok {
				continue
			}
			if ok, _ := s.cfg.Weather.Admissible([]geo.Point{o.Location}); !ok {
				continue
			}

			cost := (geo.Haversine(c.DepotLocation, o.Location) +
				1.2*o.Priority.PriorityPenalty() +
				5.0*(o.WeightKg/(c.CapacityKg+1))) * scenario.Multiplier()

			if bestCost < 0 || cost < bestCost {
				bestCost = cost
				best = c
			}
		}

		if best == nil {
			result.MarkUnassigned(o.ID)
			continue
		}
		courierLoad[best.ID] = append(courierLoad[best.ID], o)
	}

	orderByID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		orderByID[o.ID] = o
	}

	for _, c := range couriers {
		for _, o := range nearestNeighborOrder(c, courierLoad[c.ID]) {
			result.Assign(c.ID, o.ID)
		}
	}
	result.TotalCost = totalDistanceEstimate(result, couriers, orderByID)

	return result, nil
}
