package oracle

import (
	"context"

	"github.com/saan-system/services/optimization/internal/geo"
)

// OracleClient is the contract TSP refinement and route execution
// depend on, satisfied by *Client and by *CachingClient. Defining it
// here (rather than letting callers depend on the concrete *Client)
// lets tests substitute a stub without touching HTTP.
type OracleClient interface {
	Table(ctx context.Context, points []geo.Point) (distancesKm, durationsMin [][]float64, err error)
	Route(ctx context.Context, a, b geo.Point) (distanceKm, durationMin float64, err error)
	RouteFull(ctx context.Context, points []geo.Point) (*RouteFullResult, error)
}

var _ OracleClient = (*Client)(nil)
