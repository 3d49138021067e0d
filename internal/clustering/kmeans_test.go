package clustering_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saan-system/services/optimization/internal/clustering"
	"github.com/saan-system/services/optimization/internal/geo"
)

func TestKMeansEmptyInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Nil(t, clustering.KMeans(nil, 3, 10, rng))
	assert.Nil(t, clustering.KMeans([]geo.Point{{Lat: 1, Lon: 1}}, 0, 10, rng))
}

func TestKMeansFewerPointsThanK(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := []geo.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	clusters := clustering.KMeans(points, 5, 10, rng)
	assert.Len(t, clusters, 2)
	for _, c := range clusters {
		assert.Len(t, c.Members, 1)
	}
}

func TestKMeansPartitionsAllPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := []geo.Point{
		{Lat: 48.85, Lon: 2.35}, {Lat: 48.86, Lon: 2.36}, {Lat: 48.84, Lon: 2.34},
		{Lat: 40.71, Lon: -74.00}, {Lat: 40.72, Lon: -74.01}, {Lat: 40.70, Lon: -74.02},
	}
	clusters := clustering.KMeans(points, 2, 10, rng)

	total := 0
	for _, c := range clusters {
		assert.NotEmpty(t, c.Members)
		total += len(c.Members)
	}
	assert.Equal(t, len(points), total)
}

func TestKMeansDeterministicWithSameSeed(t *testing.T) {
	points := []geo.Point{
		{Lat: 48.85, Lon: 2.35}, {Lat: 48.86, Lon: 2.36}, {Lat: 48.84, Lon: 2.34},
		{Lat: 40.71, Lon: -74.00}, {Lat: 40.72, Lon: -74.01},
	}

	rng1 := rand.New(rand.NewSource(7))
	clusters1 := clustering.KMeans(points, 2, 10, rng1)

	rng2 := rand.New(rand.NewSource(7))
	clusters2 := clustering.KMeans(points, 2, 10, rng2)

	assert.Equal(t, clusters1, clusters2)
}
