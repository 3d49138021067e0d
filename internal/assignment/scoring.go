package assignment

import (
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

// Score returns the courier↔order affinity that solveBipartite turns
// into branch-and-bound pair costs: a 0.6/0.4 blend of inverse depot distance and inverse priority.
// Returns 0 when the courier is unavailable, since every call site here
// treats any non-positive score as "do not select this pair".
func Score(courier *entity.Courier, order *entity.Order) float64 {
	if courier.Status != entity.CourierStatusAvailable {
		return 0
	}

	d := geo.Haversine(courier.DepotLocation, order.Location)
	scoreDistance := 1.0 / (1.0 + d)
	scorePriority := float64(4-int(order.Priority)) / 3.0

	return 0.6*scoreDistance + 0.4*scorePriority
}

// canAdd reports whether newOrder fits within courier's capacity
// alongside currentOrders (weight-only).
func canAdd(courier *entity.Courier, currentOrders []*entity.Order, newOrder *entity.Order) bool {
	total := newOrder.WeightKg
	for _, o := range currentOrders {
		total += o.WeightKg
	}
	return total <= courier.CapacityKg
}

// totalDistanceEstimate sums each courier's depot→first-stop distance
// plus consecutive-stop distances across the whole assignment. This is
// a pre-TSP estimate for solver comparison, not the final routed
// distance.
func totalDistanceEstimate(assignment *entity.Assignment, couriers []*entity.Courier, orderByID map[string]*entity.Order) float64 {
	var total float64
	for _, courier := range couriers {
		ids := assignment.OrdersFor(courier.ID)
		if len(ids) == 0 {
			continue
		}
		prev := courier.DepotLocation
		for _, id := range ids {
			o, ok := orderByID[id]
			if !ok {
				continue
			}
			total += geo.Haversine(prev, o.Location)
			prev = o.Location
		}
	}
	return total
}

// nearestNeighborOrder greedily orders commands starting from the
// courier's depot. Used only as the pre-TSP ordering; the refinement
// pipeline replaces it with a fuller tour.
func nearestNeighborOrder(courier *entity.Courier, orders []*entity.Order) []*entity.Order {
	if len(orders) == 0 {
		return nil
	}

	remaining := append([]*entity.Order(nil), orders...)
	ordered := make([]*entity.Order, 0, len(orders))
	cur := courier.DepotLocation

	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := geo.Haversine(cur, remaining[0].Location)
		for i := 1; i < len(remaining); i++ {
			d := geo.Haversine(cur, remaining[i].Location)
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		ordered = append(ordered, remaining[bestIdx])
		cur = remaining[bestIdx].Location
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return ordered
}
