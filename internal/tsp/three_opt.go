package tsp

// ThreeOpt scans every triple (i, j, k) splitting the route into
// A|B|C|D and tries the seven non-identity B/C reversal and
// cyclic-reordering reconnections, accepting the first strict
// improvement (by more than 1e-6) and restarting the scan. Terminates
// when a full scan finds none. Ported from opt_2opt_3opt.py's
// three_opt.
func ThreeOpt(route Route, dist [][]float64) (Route, float64) {
	best := append(Route(nil), route...)
	bestDist := RouteDistance(best, dist)
	n := len(route)

	improved := true
	for improved {
		improved = false

	scan:
		for i := 1; i <= n-5; i++ {
			for j := i + 2; j <= n-3; j++ {
				for k := j + 2; k <= n-1; k++ {
					a := append(Route(nil), best[:i]...)
					b := append(Route(nil), best[i:j]...)
					c := append(Route(nil), best[j:k]...)
					d := append(Route(nil), best[k:]...)

					for _, cand := range threeOptCandidates(a, b, c, d) {
						cd := RouteDistance(cand, dist)
						if cd < bestDist-1e-6 {
							best, bestDist = cand, cd
							improved = true
							break
						}
					}
					if improved {
						break scan
					}
				}
			}
		}
	}

	return best, bestDist
}

func threeOptCandidates(a, b, c, d Route) []Route {
	revB := reverseCopy(b)
	revC := reverseCopy(c)

	join := func(parts ...Route) Route {
		total := 0
		for _, p := range parts {
			total += len(p)
		}
		out := make(Route, 0, total)
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	return []Route{
		join(a, revB, c, d),
		join(a, b, revC, d),
		join(a, revB, revC, d),
		join(a, c, b, d),
		join(a, revC, b, d),
		join(a, c, revB, d),
		join(a, revC, revB, d),
	}
}
