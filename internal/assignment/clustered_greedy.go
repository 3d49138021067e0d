package assignment

import (
	"context"
	"math/rand"
	"sort"

	"github.com/saan-system/services/optimization/internal/clustering"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

// ClusteredGreedySolver is the default assignment strategy: k-means the
// orders into geographic clusters, then greedily claim (slot, order)
// pairs in ascending cost order within each cluster.
type ClusteredGreedySolver struct {
	cfg Config
	rng *rand.Rand
}

func (s *ClusteredGreedySolver) Name() string { return NameClusteredGreedy }

type virtualSlot struct {
	courierIdx int
	claimed    bool
}

func (s *ClusteredGreedySolver) Assign(_ context.Context, couriers []*entity.Courier, orders []*entity.Order, scenario Scenario) (*entity.Assignment, error) {
	result := entity.NewAssignment(s.Name())
	if len(couriers) == 0 || len(orders) == 0 {
		for _, o := range orders {
			result.MarkUnassigned(o.ID)
		}
		return result, nil
	}

	k := len(orders)/8 + 1
	if k < 1 {
		k = 1
	}
	if k > len(couriers) {
		k = len(couriers)
	}

	points := make([]geo.Point, len(orders))
	for i, o := range orders {
		points[i] = o.Location
	}
	clusters := clustering.KMeans(points, k, s.cfg.KMeansMaxIterations, s.rng)
	if len(clusters) == 0 {
		allIdx := make([]int, len(orders))
		for i := range orders {
			allIdx[i] = i
		}
		clusters = []clustering.Cluster{{Members: allIdx}}
	}

	courierLoad := make(map[string][]*entity.Order, len(couriers))
	for _, c := range couriers {
		courierLoad[c.ID] = nil
	}
	assignedIDs := make(map[string]bool, len(orders))

	for _, cluster := range clusters {
		clusterOrders := make([]*entity.Order, len(cluster.Members))
		for i, idx := range cluster.Members {
			clusterOrders[i] = orders[idx]
		}

		slotsPerCourier := (len(clusterOrders) + len(couriers) - 1) / len(couriers)
		if slotsPerCourier < 1 {
			slotsPerCourier = 1
		}
		if slotsPerCourier > 6 {
			slotsPerCourier = 6
		}

		slots := make([]*virtualSlot, 0, len(couriers)*slotsPerCourier)
		for ci := range couriers {
			for n := 0; n < slotsPerCourier; n++ {
				slots = append(slots, &virtualSlot{courierIdx: ci})
			}
		}

		type pair struct {
			slot  *virtualSlot
			order *entity.Order
			cost  float64
		}
		pairs := make([]pair, 0, len(slots)*len(clusterOrders))
		for _, sl := range slots {
			courier := couriers[sl.courierIdx]
			for _, o := range clusterOrders {
				cost := geo.Haversine(courier.DepotLocation, o.Location) +
					o.Priority.PriorityPenalty()*scenario.Multiplier()
				pairs = append(pairs, pair{slot: sl, order: o, cost: cost})
			}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].cost < pairs[j].cost })

		for _, p := range pairs {
			if p.slot.claimed || assignedIDs[p.order.ID] {
				continue
			}
			courier := couriers[p.slot.courierIdx]
			if courier.Status != entity.CourierStatusAvailable {
				continue
			}
			if !canAdd(courier, courierLoad[courier.ID], p.order) {
				continue
			}
			if ok, _ := s.cfg.Weather.Admissible([]geo.Point{p.order.Location}); !ok {
				continue
			}

			p.slot.claimed = true
			assignedIDs[p.order.ID] = true
			courierLoad[courier.ID] = append(courierLoad[courier.ID], p.order)
		}
	}

	for _, c := range couriers {
		for _, o := range nearestNeighborOrder(c, courierLoad[c.ID]) {
			result.Assign(c.ID, o.ID)
		}
	}
	for _, o := range orders {
		if !assignedIDs[o.ID] {
			result.MarkUnassigned(o.ID)
		}
	}

	orderByID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		orderByID[o.ID] = o
	}
	result.TotalCost = totalDistanceEstimate(result, couriers, orderByID)

	return result, nil
}
