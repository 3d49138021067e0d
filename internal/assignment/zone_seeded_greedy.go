package assignment

import (
	"context"
	"math/rand"

	"github.com/saan-system/services/optimization/internal/clustering"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

// ZoneSeededGreedySolver k-means-seeds one order per courier, binds
// seeds to couriers by a small branch-and-bound, carves the remaining
// orders into zones around each seed, then greedily walks each courier
// through its visible orders.
type ZoneSeededGreedySolver struct {
	cfg Config
	rng *rand.Rand
}

func (s *ZoneSeededGreedySolver) Name() string { return NameZoneSeededGreedy }

func (s *ZoneSeededGreedySolver) Assign(ctx context.Context, couriers []*entity.Courier, orders []*entity.Order, scenario Scenario) (*entity.Assignment, error) {
	result := entity.NewAssignment(s.Name())
	if len(couriers) == 0 || len(orders) == 0 {
		for _, o := range orders {
			result.MarkUnassigned(o.ID)
		}
		return result, nil
	}

	points := make([]geo.Point, len(orders))
	for i, o := range orders {
		points[i] = o.Location
	}
	clusters := clustering.KMeans(points, len(couriers), s.cfg.KMeansMaxIterations, s.rng)

	seedOrders := make([]*entity.Order, 0, len(clusters))
	for _, cluster := range clusters {
		bestIdx := cluster.Members[0]
		bestDist := geo.Haversine(cluster.Centroid, orders[bestIdx].Location)
		for _, idx := range cluster.Members[1:] {
			d := geo.Haversine(cluster.Centroid, orders[idx].Location)
			if d < bestDist {
				bestDist = d
				bestIdx = idx
			}
		}
		seedOrders = append(seedOrders, orders[bestIdx])
	}

	cols, _, _ := solveBipartite(ctx, couriers, seedOrders, s.cfg.BranchAndBoundDeadline)

	courierSeed := make(map[string]*entity.Order, len(couriers))
	courierLoad := make(map[string][]*entity.Order, len(couriers))
	courierPosition := make(map[string]geo.Point, len(couriers))
	assignedIDs := make(map[string]bool, len(orders))

	for i, col := range cols {
		courier := couriers[i]
		courierPosition[courier.ID] = courier.DepotLocation
		if col < 0 || col >= len(seedOrders) {
			continue
		}
		seed := seedOrders[col]
		if !canAdd(courier, nil, seed) {
			continue
		}
		courierSeed[courier.ID] = seed
		courierLoad[courier.ID] = append(courierLoad[courier.ID], seed)
		courierPosition[courier.ID] = seed.Location
		assignedIDs[seed.ID] = true
	}

	zoneOf := make(map[string]string, len(orders))
	for _, o := range orders {
		if assignedIDs[o.ID] {
			continue
		}
		var nearestCourierID string
		nearestDist := s.cfg.ZoneRadiusKm
		for _, c := range couriers {
			seed, ok := courierSeed[c.ID]
			if !ok {
				continue
			}
			d := geo.Haversine(seed.Location, o.Location)
			if d <= s.cfg.ZoneRadiusKm && d < nearestDist {
				nearestDist = d
				nearestCourierID = c.ID
			}
		}
		zoneOf[o.ID] = nearestCourierID // "" means visible to all couriers
	}

	for {
		progressed := false

		for _, c := range couriers {
			if c.Status != entity.CourierStatusAvailable {
				continue
			}

			var best *entity.Order
			bestCost := -1.0
			for _, o := range orders {
				if assignedIDs[o.ID] {
					continue
				}
				if zone, tagged := zoneOf[o.ID]; tagged && zone != "" && zone != c.ID {
					continue
				}
				if !canAdd(c, courierLoad[c.ID], o) {
					continue
				}

				cost := 0.7*geo.Haversine(courierPosition[c.ID], o.Location) + 0.3*float64(o.Priority)
				if bestCost < 0 || cost < bestCost {
					bestCost = cost
					best = o
				}
			}

			if best != nil {
				courierLoad[c.ID] = append(courierLoad[c.ID], best)
				courierPosition[c.ID] = best.Location
				assignedIDs[best.ID] = true
				progressed = true
			}
		}

		if !progressed {
			break
		}
	}

	orderByID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		orderByID[o.ID] = o
	}

	for _, c := range couriers {
		for _, o := range courierLoad[c.ID] {
			result.Assign(c.ID, o.ID)
		}
	}
	for _, o := range orders {
		if !assignedIDs[o.ID] {
			result.MarkUnassigned(o.ID)
		}
	}
	result.TotalCost = totalDistanceEstimate(result, couriers, orderByID)

	return result, nil
}
