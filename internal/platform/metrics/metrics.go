// Package metrics exposes the optimizer's Prometheus instrumentation:
// a promauto-constructed container reachable through a package-level
// accessor.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the process-wide instrumentation container.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	OptimizeRunsTotal    *prometheus.CounterVec
	OptimizeDuration     *prometheus.HistogramVec
	AssignedOrdersTotal  *prometheus.CounterVec
	UnassignedOrders     prometheus.Gauge
	DeliveredOrders      prometheus.Gauge
	DeferredOrders       prometheus.Gauge
	RouteDistanceKm      *prometheus.HistogramVec
	RechargeEventsTotal  prometheus.Counter

	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics constructs and registers the metrics container under
// namespace/subsystem.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		OptimizeRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimize_runs_total",
				Help:      "Total number of optimization runs",
			},
			[]string{"solver", "scenario", "status"},
		),
		OptimizeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimize_duration_seconds",
				Help:      "Duration of a full optimization run",
				Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"solver"},
		),
		AssignedOrdersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "assigned_orders_total",
				Help:      "Total number of orders assigned to a courier",
			},
			[]string{"solver"},
		),
		UnassignedOrders: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unassigned_orders",
				Help:      "Orders left unassigned by the last optimization run",
			},
		),
		DeliveredOrders: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "delivered_orders",
				Help:      "Orders delivered within the workday by the last run",
			},
		),
		DeferredOrders: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "deferred_orders",
				Help:      "Orders deferred past the workday cutoff by the last run",
			},
		),
		RouteDistanceKm: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_distance_km",
				Help:      "Per-courier realized route distance",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
			},
			[]string{"solver"},
		),
		RechargeEventsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recharge_events_total",
				Help:      "Total number of recharge-station detours inserted",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service build information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the process-wide metrics container, lazily initializing
// it with default naming if InitMetrics was never called.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("optimizer", "")
	}
	return defaultMetrics
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordOptimizeRun records one completed optimization run's outcome.
func (m *Metrics) RecordOptimizeRun(solver, scenario string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.OptimizeRunsTotal.WithLabelValues(solver, scenario, status).Inc()
	m.OptimizeDuration.WithLabelValues(solver).Observe(duration.Seconds())
}

// RecordAssignment updates the gauges/counters describing one run's
// order disposition.
func (m *Metrics) RecordAssignment(solver string, assigned, unassigned, delivered, deferred int) {
	m.AssignedOrdersTotal.WithLabelValues(solver).Add(float64(assigned))
	m.UnassignedOrders.Set(float64(unassigned))
	m.DeliveredOrders.Set(float64(delivered))
	m.DeferredOrders.Set(float64(deferred))
}

// RecordRoute records one courier's realized route distance.
func (m *Metrics) RecordRoute(solver string, distanceKm float64, rechargeEvents int) {
	m.RouteDistanceKm.WithLabelValues(solver).Observe(distanceKm)
	if rechargeEvents > 0 {
		m.RechargeEventsTotal.Add(float64(rechargeEvents))
	}
}

// SetServiceInfo publishes build metadata as a constant gauge.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler serving /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
