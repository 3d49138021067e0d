package tsp

// TwoOpt repeatedly reverses a segment [i, j) of the route whenever
// doing so strictly reduces total distance (by more than 1e-6),
// restarting the scan on every improvement, until one full pass finds
// none. Ported from opt_2opt_3opt.py's two_opt.
func TwoOpt(route Route, dist [][]float64) (Route, float64) {
	best := append(Route(nil), route...)
	bestDist := RouteDistance(best, dist)

	improved := true
	for improved {
		improved = false
	pass:
		for i := 1; i <= len(best)-3; i++ {
			for j := i + 1; j <= len(best)-2; j++ {
				if j-i == 1 {
					continue
				}
				candidate := twoOptSwap(best, i, j)
				d := RouteDistance(candidate, dist)
				if d < bestDist-1e-6 {
					best, bestDist = candidate, d
					improved = true
					break pass
				}
			}
		}
	}

	return best, bestDist
}

// twoOptSwap reverses best[i:j] (half-open), matching Python's
// new_route[i:j] = reversed(best[i:j]).
func twoOptSwap(route Route, i, j int) Route {
	out := append(Route(nil), route...)
	for l, r := i, j-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}
