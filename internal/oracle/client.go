// Package oracle is the client for the external road-network routing
// oracle: a driving-profile OSRM-compatible service that answers
// pairwise distance/duration matrices, single-pair routes, and
// multi-stop route geometries. Built on go-resty/resty, following the
// wire contract of lon,lat;lon,lat path segments, meters/seconds units,
// and a code=="Ok" success check.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/saan-system/services/optimization/internal/geo"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
	"github.com/saan-system/services/optimization/internal/platform/logger"
)

// Client calls the road-network oracle over HTTP.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// NewClient builds a Client bound to baseURL with the given per-request
// timeout (default 15s).
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{http: http, log: log}
}

// tableResponse mirrors OSRM's /table response. Matrix cells may be
// null (unreachable pair); those are treated as 0.
type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// pathParam renders points as "lon,lat;lon,lat;…", the coordinate order
// OSRM-compatible oracles expect (the domain model stores lat,lon).
func pathParam(points []geo.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%f,%f", p.Lon, p.Lat)
	}
	return strings.Join(parts, ";")
}

// Table requests the pairwise distance (km) and duration (min) matrices
// for points. N should stay under ~120 for acceptable oracle latency.
func (c *Client) Table(ctx context.Context, points []geo.Point) (distancesKm, durationsMin [][]float64, err error) {
	if len(points) == 0 {
		return nil, nil, nil
	}

	var body tableResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetQueryParam("annotations", "distance,duration").
		Get("/table/v1/driving/" + pathParam(points))
	if err != nil {
		return nil, nil, apperr.OracleError(err, "table request failed")
	}
	if resp.IsError() || body.Code != "Ok" {
		return nil, nil, apperr.OracleError(fmt.Errorf("oracle code %q", body.Code), "table: %s", body.Message)
	}

	n := len(points)
	distancesKm = make([][]float64, n)
	durationsMin = make([][]float64, n)
	for i := 0; i < n; i++ {
		distancesKm[i] = make([]float64, n)
		durationsMin[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i < len(body.Distances) && j < len(body.Distances[i]) && body.Distances[i][j] != nil {
				distancesKm[i][j] = *body.Distances[i][j] / 1000.0
			}
			if i < len(body.Durations) && j < len(body.Durations[i]) && body.Durations[i][j] != nil {
				durationsMin[i][j] = *body.Durations[i][j] / 60.0
			}
		}
	}
	return distancesKm, durationsMin, nil
}

// Route requests the distance (km) and duration (min) of the single
// segment A→B. Returns (0, 0) when fewer than two points are supplied.
func (c *Client) Route(ctx context.Context, a, b geo.Point) (distanceKm, durationMin float64, err error) {
	points := []geo.Point{a, b}
	if len(points) < 2 {
		return 0, 0, nil
	}

	var body routeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetQueryParam("overview", "false").
		Get("/route/v1/driving/" + pathParam(points))
	if err != nil {
		return 0, 0, apperr.OracleError(err, "route request failed")
	}
	if resp.IsError() || body.Code != "Ok" || len(body.Routes) == 0 {
		return 0, 0, apperr.OracleError(fmt.Errorf("oracle code %q", body.Code), "route: %s", body.Message)
	}

	return body.Routes[0].Distance / 1000.0, body.Routes[0].Duration / 60.0, nil
}

// RouteFullResult is the output of RouteFull: distance, duration, and a
// displayable (lon, lat) geometry for the whole multi-stop route.
type RouteFullResult struct {
	DistanceKm  float64
	DurationMin float64
	Geometry    [][2]float64
}

// RouteFull requests the full route geometry across an ordered list of
// points, used both by route execution for the final display geometry
// and by the orchestrator for per-run diagnostics.
func (c *Client) RouteFull(ctx context.Context, points []geo.Point) (*RouteFullResult, error) {
	if len(points) < 2 {
		return &RouteFullResult{}, nil
	}

	var body routeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetQueryParam("overview", "full").
		SetQueryParam("geometries", "geojson").
		Get("/route/v1/driving/" + pathParam(points))
	if err != nil {
		return nil, apperr.OracleError(err, "route_full request failed")
	}
	if resp.IsError() || body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, apperr.OracleError(fmt.Errorf("oracle code %q", body.Code), "route_full: %s", body.Message)
	}

	r := body.Routes[0]
	return &RouteFullResult{
		DistanceKm:  r.Distance / 1000.0,
		DurationMin: r.Duration / 60.0,
		Geometry:    r.Geometry.Coordinates,
	}, nil
}
