package tsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saan-system/services/optimization/internal/tsp"
)

func squareMatrix(depot [2]float64, points [][2]float64) [][]float64 {
	all := append([][2]float64{depot}, points...)
	n := len(all)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			dx := all[i][0] - all[j][0]
			dy := all[i][1] - all[j][1]
			m[i][j] = dx*dx + dy*dy
		}
	}
	return m
}

func TestNearestNeighborStartsAtDepotAndVisitsAll(t *testing.T) {
	dist := squareMatrix([2]float64{0, 0}, [][2]float64{{1, 0}, {2, 0}, {3, 0}})
	route := tsp.NearestNeighbor(dist)

	assert.Equal(t, 0, route[0])
	assert.Len(t, route, 4)

	seen := make(map[int]bool)
	for _, idx := range route {
		seen[idx] = true
	}
	assert.Len(t, seen, 4)
}

func TestTwoOptNeverWorsensTheRoute(t *testing.T) {
	dist := squareMatrix([2]float64{0, 0}, [][2]float64{{1, 0}, {0, 1}, {1, 1}})
	seed := tsp.Route{0, 2, 1, 3}
	before := tsp.RouteDistance(seed, dist)

	_, after := tsp.TwoOpt(seed, dist)
	assert.LessOrEqual(t, after, before+1e-9)
}

func TestThreeOptNeverWorsensTheRoute(t *testing.T) {
	dist := squareMatrix([2]float64{0, 0}, [][2]float64{{1, 0}, {2, 1}, {0, 2}, {3, 3}, {1, 3}})
	seed := tsp.NearestNeighbor(dist)
	before := tsp.RouteDistance(seed, dist)

	_, after := tsp.ThreeOpt(seed, dist)
	assert.LessOrEqual(t, after, before+1e-9)
}

func TestRouteDistanceSumsConsecutivePairs(t *testing.T) {
	dist := [][]float64{
		{0, 1, 4},
		{1, 0, 2},
		{4, 2, 0},
	}
	assert.Equal(t, 3.0, tsp.RouteDistance(tsp.Route{0, 1, 2}, dist))
}
