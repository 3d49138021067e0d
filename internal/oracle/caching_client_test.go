package oracle_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/platform/logger"
)

// memCache is a minimal in-process oracle.JSONCache backed by a map of
// marshaled payloads, standing in for *infrastructure/cache.Cache.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return assert.AnError
	}
	return json.Unmarshal(b, dest)
}

// countingOracle counts calls made to its underlying RouteFull so tests
// can assert the cache actually short-circuits the second lookup.
type countingOracle struct {
	routeFullCalls int
	result         *oracle.RouteFullResult
}

func (c *countingOracle) Table(ctx context.Context, points []geo.Point) ([][]float64, [][]float64, error) {
	return nil, nil, nil
}

func (c *countingOracle) Route(ctx context.Context, a, b geo.Point) (float64, float64, error) {
	return 0, 0, nil
}

func (c *countingOracle) RouteFull(ctx context.Context, points []geo.Point) (*oracle.RouteFullResult, error) {
	c.routeFullCalls++
	return c.result, nil
}

func TestCachingClientRouteFullMemoizes(t *testing.T) {
	inner := &countingOracle{result: &oracle.RouteFullResult{DistanceKm: 12.5, DurationMin: 30}}
	cache := newMemCache()
	log := logger.New("error", "text")

	client := oracle.NewCachingClient(inner, cache, time.Minute, log)

	points := []geo.Point{{Lat: 48.85, Lon: 2.35}, {Lat: 48.86, Lon: 2.36}}

	first, err := client.RouteFull(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, 12.5, first.DistanceKm)
	assert.Equal(t, 1, inner.routeFullCalls)

	second, err := client.RouteFull(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, first.DistanceKm, second.DistanceKm)
	assert.Equal(t, 1, inner.routeFullCalls, "second call should be served from cache")
}

func TestCachingClientRouteFullDistinctPointsMiss(t *testing.T) {
	inner := &countingOracle{result: &oracle.RouteFullResult{DistanceKm: 5}}
	cache := newMemCache()
	log := logger.New("error", "text")

	client := oracle.NewCachingClient(inner, cache, time.Minute, log)

	_, err := client.RouteFull(context.Background(), []geo.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}})
	require.NoError(t, err)
	_, err = client.RouteFull(context.Background(), []geo.Point{{Lat: 3, Lon: 3}, {Lat: 4, Lon: 4}})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.routeFullCalls)
}
