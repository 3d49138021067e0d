package tsp

import (
	"math"
	"math/rand"
	"sort"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/geo"
)

// GAConfig tunes the genetic refinement stage.
type GAConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	EliteRatio     float64
	TournamentK    int
	ImmigrantRatio float64
	Seed           int64
}

// DefaultGAConfig returns the documented defaults: population 60, 150
// generations, 18% mutation rate, 10% elitism, tournament k=4, 6%
// random immigrants.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		PopulationSize: 60,
		Generations:    150,
		MutationRate:   0.18,
		EliteRatio:     0.10,
		TournamentK:    4,
		ImmigrantRatio: 0.06,
		Seed:           42,
	}
}

// gaContext bundles the read-only simulation inputs the fitness
// function needs: the oracle-measured matrices, the courier whose
// battery/workday it simulates, the orders aligned 1:1 with non-depot
// coordinate indices, the recharge stations available for a virtual
// detour, and the scenario's lateness-penalty multiplier.
type gaContext struct {
	distKm, durMin     [][]float64
	courier            *entity.Courier
	orders             []*entity.Order
	stations           []*entity.RechargeStation
	scenarioMultiplier float64
}

func (g *gaContext) orderAt(coordIdx int) *entity.Order {
	i := coordIdx - 1
	if i < 0 || i >= len(g.orders) {
		return nil
	}
	return g.orders[i]
}

func (g *gaContext) nearestStation(from geo.Point) *entity.RechargeStation {
	var best *entity.RechargeStation
	bestDist := math.Inf(1)
	for _, st := range g.stations {
		d := geo.Haversine(from, st.Location)
		if d < bestDist {
			bestDist = d
			best = st
		}
	}
	return best
}

func travelMinutes(distanceKm, speedKmh float64) float64 {
	if speedKmh <= 0 {
		return 0
	}
	return distanceKm / speedKmh * 60
}

// fitness simulates route over the distance/duration matrices and
// returns the weighted penalty total (lower is better): accumulated
// distance and elapsed time, a virtual recharge detour whenever a
// segment would exceed remaining battery, per-order lateness against
// its time window weighted by priority, and workday overrun.
func (g *gaContext) fitness(route Route, coords []geo.Point) float64 {
	var totalDistance, totalTime, latenessPen, batteryPen, overtimePen float64

	elapsed := float64(g.courier.WorkdayStart)
	battery := g.courier.BatteryRemainingMinutes
	batteryMax := g.courier.BatteryMaxMinutes
	constrained := g.courier.IsBatteryConstrained()

	for i := 0; i+1 < len(route); i++ {
		from, to := route[i], route[i+1]
		segDist := g.distKm[from][to]
		segTime := g.durMin[from][to]

		if constrained && segTime > battery {
			if station := g.nearestStation(coords[from]); station != nil {
				detourDist := geo.Haversine(coords[from], station.Location)
				detourTime := travelMinutes(detourDist, g.courier.SpeedKmh)

				if detourTime > battery {
					overshoot := detourTime - battery
					batteryPen += 5000 + 100*overshoot
				} else {
					rechargeTime := (batteryMax - (battery - detourTime)) / nonZero(g.courier.RechargeRate)
					batteryPen += 25 + 0.5*rechargeTime
					totalDistance += detourDist
					totalTime += detourTime + rechargeTime
					elapsed += detourTime + rechargeTime
					battery = batteryMax
				}
			}
		}

		totalDistance += segDist
		totalTime += segTime
		elapsed += segTime
		if constrained {
			battery -= segTime
			if battery < 0 {
				battery = 0
			}
		}

		if order := g.orderAt(to); order != nil {
			if order.HasTimeWindow() {
				if elapsed < float64(order.TimeWindowStart) {
					elapsed = float64(order.TimeWindowStart)
				}
				if elapsed > float64(order.TimeWindowEnd) {
					lateness := elapsed - float64(order.TimeWindowEnd)
					latenessPen += lateness * order.Priority.PriorityWeight()
				}
			}
			elapsed += float64(order.ServiceTimeMinutes)
			totalTime += float64(order.ServiceTimeMinutes)
		}

		if elapsed > float64(g.courier.WorkdayEnd) {
			overtimePen += 2000 + 25*(elapsed-float64(g.courier.WorkdayEnd))
		}
	}

	return 1.0*totalDistance + 0.30*totalTime +
		1.20*latenessPen*g.scenarioMultiplier +
		1.0*batteryPen + 1.5*overtimePen
}

func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

type individual struct {
	route   Route
	fitness float64
}

// Genetic runs the constraint-aware GA seeded by the 3-opt result and
// returns the best individual seen across all generations:
// initialization includes the seed verbatim plus random shuffles of
// the non-depot suffix; k-way tournament selection; ordered crossover
// on indices 1..n; swap/segment-reverse mutation; elitism; random
// immigrants each generation.
func Genetic(ctx *gaContext, coords []geo.Point, seed Route, cfg GAConfig) (Route, float64) {
	if len(seed) <= 2 {
		return append(Route(nil), seed...), ctx.fitness(seed, coords)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	pop := make([]individual, cfg.PopulationSize)
	pop[0] = individual{route: append(Route(nil), seed...)}
	for i := 1; i < cfg.PopulationSize; i++ {
		pop[i] = individual{route: randomShuffleSuffix(seed, rng)}
	}
	for i := range pop {
		pop[i].fitness = ctx.fitness(pop[i].route, coords)
	}

	eliteCount := int(float64(cfg.PopulationSize) * cfg.EliteRatio)
	if eliteCount < 1 {
		eliteCount = 1
	}
	immigrantCount := int(float64(cfg.PopulationSize) * cfg.ImmigrantRatio)

	sort.Slice(pop, func(i, j int) bool { return pop[i].fitness < pop[j].fitness })
	best := pop[0]

	for gen := 0; gen < cfg.Generations; gen++ {
		next := make([]individual, 0, cfg.PopulationSize)
		next = append(next, pop[:eliteCount]...)

		childTarget := cfg.PopulationSize - immigrantCount
		for len(next) < childTarget {
			p1 := tournamentSelect(pop, cfg.TournamentK, rng)
			p2 := tournamentSelect(pop, cfg.TournamentK, rng)
			child := orderedCrossover(p1.route, p2.route, rng)
			if rng.Float64() < cfg.MutationRate {
				mutate(child, rng)
			}
			next = append(next, individual{route: child, fitness: ctx.fitness(child, coords)})
		}

		for len(next) < cfg.PopulationSize {
			immigrant := randomShuffleSuffix(seed, rng)
			next = append(next, individual{route: immigrant, fitness: ctx.fitness(immigrant, coords)})
		}

		sort.Slice(next, func(i, j int) bool { return next[i].fitness < next[j].fitness })
		if next[0].fitness < best.fitness {
			best = next[0]
		}
		pop = next
	}

	return best.route, best.fitness
}

func randomShuffleSuffix(seed Route, rng *rand.Rand) Route {
	out := append(Route(nil), seed...)
	rng.Shuffle(len(out)-1, func(i, j int) {
		out[i+1], out[j+1] = out[j+1], out[i+1]
	})
	return out
}

func tournamentSelect(pop []individual, k int, rng *rand.Rand) individual {
	if k < 1 {
		k = 1
	}
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < k; i++ {
		c := pop[rng.Intn(len(pop))]
		if c.fitness < best.fitness {
			best = c
		}
	}
	return best
}

// orderedCrossover performs cyclic ordered crossover (OX) on indices
// 1..n-1, always preserving the leading depot index.
func orderedCrossover(a, b Route, rng *rand.Rand) Route {
	n := len(a)
	child := make(Route, n)
	child[0] = 0
	if n <= 2 {
		copy(child, a)
		return child
	}

	lo := 1 + rng.Intn(n-1)
	hi := 1 + rng.Intn(n-1)
	if lo > hi {
		lo, hi = hi, lo
	}

	used := make(map[int]bool, n)
	for i := lo; i <= hi; i++ {
		child[i] = a[i]
		used[a[i]] = true
	}

	bIdx := hi + 1
	if bIdx >= n {
		bIdx = 1
	}
	pos := hi + 1
	if pos >= n {
		pos = 1
	}

	remaining := n - 1 - (hi - lo + 1)
	for count := 0; count < remaining; count++ {
		for used[b[bIdx]] {
			bIdx++
			if bIdx >= n {
				bIdx = 1
			}
		}
		child[pos] = b[bIdx]
		used[b[bIdx]] = true
		bIdx++
		if bIdx >= n {
			bIdx = 1
		}
		pos++
		if pos >= n {
			pos = 1
		}
		if pos == lo {
			pos = hi + 1
			if pos >= n {
				pos = 1
			}
		}
	}

	return child
}

// mutate applies, with equal probability, a swap of two non-depot
// positions or a reversal of the segment between two non-depot
// positions.
func mutate(route Route, rng *rand.Rand) {
	n := len(route)
	if n <= 2 {
		return
	}

	if rng.Float64() < 0.5 {
		i := 1 + rng.Intn(n-1)
		j := 1 + rng.Intn(n-1)
		route[i], route[j] = route[j], route[i]
		return
	}

	i := 1 + rng.Intn(n-1)
	j := 1 + rng.Intn(n-1)
	if i > j {
		i, j = j, i
	}
	for l, r := i, j; l < r; l, r = l+1, r-1 {
		route[l], route[r] = route[r], route[l]
	}
}
