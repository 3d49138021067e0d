package tsp

import "math"

// NearestNeighbor builds the seed route: starting at the depot (index
// 0), repeatedly append the unvisited index closest to the current
// tail. Ties break to the lowest index, matching the matrix scan order.
// Ported from tsp_nearest.py's nearest_neighbor_route.
func NearestNeighbor(dist [][]float64) Route {
	n := len(dist)
	if n == 0 {
		return nil
	}

	visited := make([]bool, n)
	visited[0] = true
	route := make(Route, 1, n)
	route[0] = 0

	for len(route) < n {
		last := route[len(route)-1]
		best := -1
		bestDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if dist[last][j] < bestDist {
				bestDist = dist[last][j]
				best = j
			}
		}
		if best == -1 {
			break
		}
		route = append(route, best)
		visited[best] = true
	}

	return route
}
