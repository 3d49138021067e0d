// Package clustering implements Lloyd's k-means algorithm over
// haversine distance.
package clustering

import (
	"math/rand"

	"github.com/saan-system/services/optimization/internal/geo"
)

// Cluster is a non-empty group of points assigned to the same centroid.
type Cluster struct {
	Centroid geo.Point
	Members  []int // indices into the original points slice
}

// KMeans partitions points into at most k clusters using haversine
// distance:
//   - k ≤ 0 or empty input → empty result.
//   - len(points) ≤ k → one cluster per point.
//   - centroids seeded by drawing k distinct points uniformly at random
//     via rng; an empty cluster re-seeds from a random input point.
//   - terminates after maxIters (default 10); ties resolve to the
//     lowest centroid index.
func KMeans(points []geo.Point, k, maxIters int, rng *rand.Rand) []Cluster {
	if k <= 0 || len(points) == 0 {
		return nil
	}
	if maxIters <= 0 {
		maxIters = 10
	}

	if len(points) <= k {
		clusters := make([]Cluster, len(points))
		for i, p := range points {
			clusters[i] = Cluster{Centroid: p, Members: []int{i}}
		}
		return clusters
	}

	centroids := seedCentroids(points, k, rng)

	var memberIdx [][]int
	for iter := 0; iter < maxIters; iter++ {
		memberIdx = make([][]int, len(centroids))
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			memberIdx[best] = append(memberIdx[best], i)
		}

		next := make([]geo.Point, len(centroids))
		for c, members := range memberIdx {
			if len(members) == 0 {
				next[c] = points[rng.Intn(len(points))]
				continue
			}
			var latSum, lonSum float64
			for _, idx := range members {
				latSum += points[idx].Lat
				lonSum += points[idx].Lon
			}
			n := float64(len(members))
			next[c] = geo.Point{Lat: latSum / n, Lon: lonSum / n}
		}
		centroids = next
	}

	clusters := make([]Cluster, 0, len(centroids))
	for c, members := range memberIdx {
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Centroid: centroids[c], Members: members})
	}
	return clusters
}

// seedCentroids draws k distinct points uniformly at random as the
// initial centroids, matching random.sample semantics (sampling without
// replacement).
func seedCentroids(points []geo.Point, k int, rng *rand.Rand) []geo.Point {
	perm := rng.Perm(len(points))
	centroids := make([]geo.Point, 0, k)
	for i := 0; i < k && i < len(perm); i++ {
		centroids = append(centroids, points[perm[i]])
	}
	return centroids
}

// nearestCentroid returns the index of the closest centroid to p,
// breaking ties toward the lowest index.
func nearestCentroid(p geo.Point, centroids []geo.Point) int {
	best := 0
	bestDist := geo.Haversine(p, centroids[0])
	for i := 1; i < len(centroids); i++ {
		d := geo.Haversine(p, centroids[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
