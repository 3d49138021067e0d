// Package orchestrator wires the assignment, TSP refinement, and route
// execution stages into a single entry point: load, solve, fan out per
// courier concurrently, aggregate, write back, publish, and update the
// diagnostic slot.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saan-system/services/optimization/internal/assignment"
	"github.com/saan-system/services/optimization/internal/constraints"
	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/domain/repository"
	"github.com/saan-system/services/optimization/internal/execution"
	"github.com/saan-system/services/optimization/internal/infrastructure/events"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
	"github.com/saan-system/services/optimization/internal/platform/diagnostics"
	"github.com/saan-system/services/optimization/internal/platform/logger"
	"github.com/saan-system/services/optimization/internal/platform/metrics"
	"github.com/saan-system/services/optimization/internal/tsp"
)

// EventPublisher is the narrow dependency Optimizer needs from
// internal/infrastructure/events, named here the way shipping's
// application package names its own EventPublisher/Cache interfaces
// rather than depending on the concrete infrastructure type.
type EventPublisher interface {
	PublishRouteOptimized(ctx context.Context, runID string, payload events.RouteOptimizedEvent) error
}

// CourierResult is one courier's TSP refinement and execution output,
// returned alongside the final Assignment.
type CourierResult struct {
	CourierID     string
	MetaSolutions []tsp.MetaSolution
	Realized      *entity.RealizedRoute
}

// OptimizationResult is the full output of one Optimize call.
type OptimizationResult struct {
	RunID            string
	Scenario         assignment.Scenario
	SolverName       string
	Assignment       *entity.Assignment
	CourierResults   []CourierResult
	ValidationReport *constraints.Report
	GeneratedAt      time.Time
}

// Config carries the knobs Optimizer needs beyond its injected
// dependencies: which solver to run, the TSP genetic-algorithm
// settings, and the fallback behavior when the primary solver times
// out.
type Config struct {
	SolverName            string
	AssignmentConfig      assignment.Config
	GAConfig              tsp.GAConfig
	DisableGreedyFallback bool
}

// DefaultConfig returns the documented defaults: branch-and-bound as
// the primary solver, falling back to multi-criteria greedy on
// timeout.
func DefaultConfig() Config {
	return Config{
		SolverName:       assignment.NameBranchAndBound,
		AssignmentConfig: assignment.DefaultConfig(),
		GAConfig:         tsp.DefaultGAConfig(),
	}
}

// Optimizer is the service's entry point: one struct, one constructor,
// with repositories, oracle, event publisher, and diagnostic slot
// injected.
type Optimizer struct {
	couriers  repository.CourierRepository
	orders    repository.OrderRepository
	stations  repository.RechargeStationRepository
	oracle    oracle.OracleClient
	events    EventPublisher
	slot      *diagnostics.Slot
	validator *constraints.Validator
	metrics   *metrics.Metrics
	log       logger.Logger

	cfg Config
}

// NewOptimizer builds an Optimizer from its dependencies.
func NewOptimizer(
	couriers repository.CourierRepository,
	orders repository.OrderRepository,
	stations repository.RechargeStationRepository,
	oracleClient oracle.OracleClient,
	eventPub EventPublisher,
	slot *diagnostics.Slot,
	validator *constraints.Validator,
	m *metrics.Metrics,
	log logger.Logger,
	cfg Config,
) *Optimizer {
	return &Optimizer{
		couriers:  couriers,
		orders:    orders,
		stations:  stations,
		oracle:    oracleClient,
		events:    eventPub,
		slot:      slot,
		validator: validator,
		metrics:   m,
		log:       log,
		cfg:       cfg,
	}
}

// courierJob is one goroutine's unit of work: refine then execute one
// courier's claimed orders.
type courierJob struct {
	courier *entity.Courier
	orders  []*entity.Order
}

// courierOutcome is what a courierJob goroutine reports back over the
// fan-in channel.
type courierOutcome struct {
	result CourierResult
	err    error
}

// Optimize runs the full assign→refine→execute pipeline for the given
// scenario: load the active fleet and pending orders, deep-copy them
// into a working snapshot, run the configured solver, fan out
// refinement+execution per courier concurrently, aggregate, write back
// order status, publish the completed-run event, and update the
// diagnostic slot.
func (o *Optimizer) Optimize(ctx context.Context, scenario assignment.Scenario) (*OptimizationResult, error) {
	start := time.Now()

	couriers, err := o.couriers.GetAvailable(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInsufficientData, "orchestrator: loading couriers failed", err)
	}
	orders, err := o.orders.GetPending(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInsufficientData, "orchestrator: loading orders failed", err)
	}

	if len(couriers) == 0 || len(orders) == 0 {
		return nil, apperr.InsufficientData("orchestrator: no available couriers or no pending orders (couriers=%d, orders=%d)", len(couriers), len(orders))
	}

	workingCouriers := make([]*entity.Courier, len(couriers))
	for i, c := range couriers {
		workingCouriers[i] = c.Clone()
	}
	workingOrders := make([]*entity.Order, len(orders))
	for i, ord := range orders {
		workingOrders[i] = ord.Clone()
	}

	var stations []*entity.RechargeStation
	if o.stations != nil {
		stations, err = o.stations.GetAll(ctx)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInsufficientData, "orchestrator: loading recharge stations failed", err)
		}
	}

	plan, solverName, err := o.solve(ctx, workingCouriers, workingOrders, scenario)
	if err != nil {
		o.recordRun(solverName, scenario, false, time.Since(start))
		return nil, err
	}

	results := o.refineAndExecute(ctx, plan, workingCouriers, workingOrders, stations, scenario)

	if err := o.writeBack(ctx, plan, results); err != nil {
		o.log.Errorf("orchestrator: write-back failed: %v", err)
	}

	report := o.validator.ValidateSolution(plan, workingCouriers, workingOrders)

	runID := uuid.NewString()
	optResult := &OptimizationResult{
		RunID:            runID,
		Scenario:         scenario,
		SolverName:       solverName,
		Assignment:       plan,
		CourierResults:   results,
		ValidationReport: report,
		GeneratedAt:      time.Now(),
	}

	o.publish(ctx, optResult)
	o.storeDiagnostics(optResult)
	o.recordRun(solverName, scenario, true, time.Since(start))
	o.recordAssignment(solverName, plan, results)

	return optResult, nil
}

// solve runs the configured solver, falling back to multi-criteria
// greedy on a solver timeout unless DisableGreedyFallback is set.
func (o *Optimizer) solve(ctx context.Context, couriers []*entity.Courier, orders []*entity.Order, scenario assignment.Scenario) (*entity.Assignment, string, error) {
	solver, err := assignment.NewSolver(o.cfg.SolverName, o.cfg.AssignmentConfig)
	if err != nil {
		return nil, "", err
	}

	deadline := o.cfg.AssignmentConfig.BranchAndBoundDeadline
	solveCtx := ctx
	var cancel context.CancelFunc
	if deadline > 0 {
		solveCtx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	plan, err := solver.Assign(solveCtx, couriers, orders, scenario)
	if err == nil {
		return plan, solver.Name(), nil
	}

	if !isTimeout(err) || o.cfg.DisableGreedyFallback {
		return nil, solver.Name(), err
	}

	o.log.Warnf("orchestrator: %s timed out, falling back to %s", solver.Name(), assignment.NameMultiCriteriaGreedy)
	fallback, ferr := assignment.NewSolver(assignment.NameMultiCriteriaGreedy, o.cfg.AssignmentConfig)
	if ferr != nil {
		return nil, solver.Name(), ferr
	}
	plan, err = fallback.Assign(ctx, couriers, orders, scenario)
	if err != nil {
		return nil, fallback.Name(), err
	}
	return plan, fallback.Name(), nil
}

func isTimeout(err error) bool {
	return errors.Is(err, apperr.ErrSolverTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// refineAndExecute fans out one goroutine per courier claimed in plan,
// each running TSP refinement then route execution, and fans the
// results back in over a channel sized to the number of couriers.
func (o *Optimizer) refineAndExecute(ctx context.Context, plan *entity.Assignment, couriers []*entity.Courier, orders []*entity.Order, stations []*entity.RechargeStation, scenario assignment.Scenario) []CourierResult {
	courierByID := make(map[string]*entity.Courier, len(couriers))
	for _, c := range couriers {
		courierByID[c.ID] = c
	}
	orderByID := make(map[string]*entity.Order, len(orders))
	for _, ord := range orders {
		orderByID[ord.ID] = ord
	}

	var jobs []courierJob
	for courierID, orderIDs := range plan.CourierOrders {
		courier, ok := courierByID[courierID]
		if !ok {
			continue
		}
		claimedOrders := make([]*entity.Order, 0, len(orderIDs))
		for _, id := range orderIDs {
			if ord, ok := orderByID[id]; ok {
				claimedOrders = append(claimedOrders, ord)
			}
		}
		jobs = append(jobs, courierJob{courier: courier, orders: claimedOrders})
	}

	outcomes := make(chan courierOutcome, len(jobs))
	var wg sync.WaitGroup
	pipeline := tsp.NewPipeline(o.oracle, stations, o.cfg.GAConfig)
	executor := execution.NewExecutor(o.oracle, stations)

	for _, job := range jobs {
		wg.Add(1)
		go func(job courierJob) {
			defer wg.Done()
			outcomes <- o.runCourier(ctx, pipeline, executor, job, scenario)
		}(job)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]CourierResult, 0, len(jobs))
	for outcome := range outcomes {
		if outcome.err != nil {
			o.log.Errorf("orchestrator: courier %s failed: %v", outcome.result.CourierID, outcome.err)
			continue
		}
		results = append(results, outcome.result)
	}
	return results
}

func (o *Optimizer) runCourier(ctx context.Context, pipeline *tsp.Pipeline, executor *execution.Executor, job courierJob, scenario assignment.Scenario) courierOutcome {
	refined, err := pipeline.Refine(ctx, job.courier, job.orders, scenario)
	if err != nil {
		return courierOutcome{result: CourierResult{CourierID: job.courier.ID}, err: err}
	}

	realized, err := executor.Run(ctx, job.courier, refined.Final, refined.Coords, refined.OrderIDs)
	if err != nil {
		return courierOutcome{result: CourierResult{CourierID: job.courier.ID}, err: err}
	}

	realized.MetaSolutions = toEntityMetaSolutions(refined.Stages)

	return courierOutcome{result: CourierResult{
		CourierID:     job.courier.ID,
		MetaSolutions: refined.Stages,
		Realized:      realized,
	}}
}

func toEntityMetaSolutions(stages []tsp.MetaSolution) []entity.MetaSolution {
	out := make([]entity.MetaSolution, len(stages))
	for i, s := range stages {
		out[i] = entity.MetaSolution{
			Algorithm:           s.Algo,
			EstimatedDistanceKm: s.EstimatedDistance,
		}
	}
	return out
}

// writeBack persists the final disposition of every order: delivered,
// deferred, or left unassigned, via repository.OrderRepository.AssignOrders.
func (o *Optimizer) writeBack(ctx context.Context, plan *entity.Assignment, results []CourierResult) error {
	var errs []error

	for _, res := range results {
		if res.Realized == nil {
			continue
		}
		if len(res.Realized.DeliveredOrderIDs) > 0 {
			if err := o.orders.AssignOrders(ctx, res.CourierID, res.Realized.DeliveredOrderIDs, entity.OrderStatusDelivered); err != nil {
				errs = append(errs, err)
			}
		}
		if len(res.Realized.DeferredOrderIDs) > 0 {
			if err := o.orders.AssignOrders(ctx, res.CourierID, res.Realized.DeferredOrderIDs, entity.OrderStatusDeferred); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(plan.Unassigned) > 0 {
		if err := o.orders.AssignOrders(ctx, "", plan.Unassigned, entity.OrderStatusPending); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("orchestrator: %d write-back failures, first: %w", len(errs), errs[0])
	}
	return nil
}

func (o *Optimizer) publish(ctx context.Context, result *OptimizationResult) {
	if o.events == nil {
		return
	}

	var distance float64
	cost := decimal.Zero
	var delivered, deferred int
	for _, res := range result.CourierResults {
		if res.Realized == nil {
			continue
		}
		distance += res.Realized.TotalDistanceKm
		cost = cost.Add(res.Realized.Cost)
		delivered += len(res.Realized.DeliveredOrderIDs)
		deferred += len(res.Realized.DeferredOrderIDs)
	}

	costFloat, _ := cost.Float64()

	payload := events.RouteOptimizedEvent{
		Scenario:         string(result.Scenario),
		SolverName:       result.SolverName,
		CourierCount:     len(result.CourierResults),
		DeliveredOrders:  delivered,
		DeferredOrders:   deferred,
		UnassignedOrders: len(result.Assignment.Unassigned),
		TotalDistanceKm:  distance,
		TotalCost:        costFloat,
	}

	if err := o.events.PublishRouteOptimized(ctx, result.RunID, payload); err != nil {
		o.log.Errorf("orchestrator: publish route.optimized failed: %v", err)
	}
}

func (o *Optimizer) storeDiagnostics(result *OptimizationResult) {
	if o.slot == nil {
		return
	}

	snap := &diagnostics.Snapshot{
		RunID:            result.RunID,
		GeneratedAt:      result.GeneratedAt,
		Scenario:         string(result.Scenario),
		SolverName:       result.SolverName,
		Assignment:       result.Assignment,
		ValidationReport: result.ValidationReport,
	}
	for _, res := range result.CourierResults {
		snap.CourierResults = append(snap.CourierResults, diagnostics.CourierResult{
			CourierID:     res.CourierID,
			MetaSolutions: res.MetaSolutions,
			Realized:      res.Realized,
		})
	}
	o.slot.Store(snap)
}

func (o *Optimizer) recordRun(solverName string, scenario assignment.Scenario, success bool, duration time.Duration) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordOptimizeRun(solverName, string(scenario), success, duration)
}

func (o *Optimizer) recordAssignment(solverName string, plan *entity.Assignment, results []CourierResult) {
	if o.metrics == nil {
		return
	}
	var assigned, delivered, deferred int
	for _, res := range results {
		if res.Realized == nil {
			continue
		}
		delivered += len(res.Realized.DeliveredOrderIDs)
		deferred += len(res.Realized.DeferredOrderIDs)
		assigned += len(res.Realized.DeliveredOrderIDs) + len(res.Realized.DeferredOrderIDs)

		o.metrics.RecordRoute(solverName, res.Realized.TotalDistanceKm, len(res.Realized.RechargeEvents))
	}
	o.metrics.RecordAssignment(solverName, assigned, len(plan.Unassigned), delivered, deferred)
}
