package oracle

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/platform/logger"
)

// JSONCache is the minimal cache contract CachingClient needs,
// satisfied by *infrastructure/cache.Cache. Kept narrow so oracle does
// not need to import the infrastructure package directly.
type JSONCache interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}

// CachingClient decorates an OracleClient with a Redis-backed memoization
// layer: route/table results for an identical coordinate set are
// reused for the configured TTL rather than re-queried, which matters
// since TSP refinement and route execution both query overlapping
// coordinate sequences within one optimization run.
type CachingClient struct {
	inner OracleClient
	cache JSONCache
	ttl   time.Duration
	log   logger.Logger
}

// NewCachingClient wraps inner with cache, memoizing for ttl.
func NewCachingClient(inner OracleClient, cache JSONCache, ttl time.Duration, log logger.Logger) *CachingClient {
	return &CachingClient{inner: inner, cache: cache, ttl: ttl, log: log}
}

var _ OracleClient = (*CachingClient)(nil)

type tableCacheEntry struct {
	DistancesKm  [][]float64
	DurationsMin [][]float64
}

func (c *CachingClient) Table(ctx context.Context, points []geo.Point) ([][]float64, [][]float64, error) {
	key := "oracle:table:" + hashPoints(points)

	var cached tableCacheEntry
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil && cached.DistancesKm != nil {
		return cached.DistancesKm, cached.DurationsMin, nil
	}

	distancesKm, durationsMin, err := c.inner.Table(ctx, points)
	if err != nil {
		return nil, nil, err
	}

	if err := c.cache.SetJSON(ctx, key, tableCacheEntry{DistancesKm: distancesKm, DurationsMin: durationsMin}, c.ttl); err != nil {
		c.log.WithField("key", key).Warnf("oracle: failed to cache table result: %v", err)
	}

	return distancesKm, durationsMin, nil
}

type routeCacheEntry struct {
	DistanceKm  float64
	DurationMin float64
}

func (c *CachingClient) Route(ctx context.Context, a, b geo.Point) (float64, float64, error) {
	key := "oracle:route:" + hashPoints([]geo.Point{a, b})

	var cached routeCacheEntry
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached.DistanceKm, cached.DurationMin, nil
	}

	distanceKm, durationMin, err := c.inner.Route(ctx, a, b)
	if err != nil {
		return 0, 0, err
	}

	if err := c.cache.SetJSON(ctx, key, routeCacheEntry{DistanceKm: distanceKm, DurationMin: durationMin}, c.ttl); err != nil {
		c.log.WithField("key", key).Warnf("oracle: failed to cache route result: %v", err)
	}

	return distanceKm, durationMin, nil
}

func (c *CachingClient) RouteFull(ctx context.Context, points []geo.Point) (*RouteFullResult, error) {
	key := "oracle:route_full:" + hashPoints(points)

	var cached RouteFullResult
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	result, err := c.inner.RouteFull(ctx, points)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(ctx, key, result, c.ttl); err != nil {
		c.log.WithField("key", key).Warnf("oracle: failed to cache route_full result: %v", err)
	}

	return result, nil
}

func hashPoints(points []geo.Point) string {
	h := sha1.New()
	buf := make([]byte, 0, 32)
	for _, p := range points {
		buf = appendFloat(buf, p.Lat)
		buf = appendFloat(buf, p.Lon)
	}
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}

func appendFloat(buf []byte, f float64) []byte {
	b, _ := json.Marshal(f)
	return append(append(buf, b...), ';')
}
