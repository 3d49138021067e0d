package assignment

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/platform/apperr"
)

const (
	bnbDummyCost   = 1.2
	bnbBlockedCost = 9999.0
)

// BranchAndBoundSolver is an exact bipartite matcher binding at most one
// order to each courier: a cost matrix with row-minimum lower-bound
// pruning, explored column-ascending with a hard deadline. On deadline
// it surfaces its best-so-far alongside apperr.SolverTimeout, leaving
// the choice of falling back to a greedy solver (or propagating the
// timeout) to the caller.
type BranchAndBoundSolver struct {
	cfg Config
	rng *rand.Rand
}

func (s *BranchAndBoundSolver) Name() string { return NameBranchAndBound }

func (s *BranchAndBoundSolver) Assign(ctx context.Context, couriers []*entity.Courier, orders []*entity.Order, scenario Scenario) (*entity.Assignment, error) {
	result := entity.NewAssignment(s.Name())
	if len(couriers) == 0 || len(orders) == 0 {
		for _, o := range orders {
			result.MarkUnassigned(o.ID)
		}
		return result, nil
	}

	cols, bestCost, timedOut := solveBipartite(ctx, couriers, orders, s.cfg.BranchAndBoundDeadline)

	assigned := make(map[string]bool, len(orders))
	for i, col := range cols {
		if col >= 0 && col < len(orders) {
			result.Assign(couriers[i].ID, orders[col].ID)
			assigned[orders[col].ID] = true
		}
	}
	for _, o := range orders {
		if !assigned[o.ID] {
			result.MarkUnassigned(o.ID)
		}
	}
	result.TotalCost = bestCost

	if timedOut {
		return result, apperr.SolverTimeout("branch_and_bound: deadline %s exceeded before the search completed", s.cfg.BranchAndBoundDeadline)
	}
	return result, nil
}

// bnbState is the mutable search state for one solveBipartite call.
type bnbState struct {
	cost        [][]float64
	rowMin      []float64
	used        []bool
	best        []int
	bestCost    float64
	deadline    time.Time
	deadlineHit bool
}

// solveBipartite binds at most one order to each courier by exact
// branch-and-bound over a cost matrix of `max(len(couriers),
// len(orders)) + 3` columns, those past the last order being dummy
// columns (cost 1.2) that allow partial assignment, blocked pairs
// costing 9999. Returns, per courier, the
// bound order's index (or -1), the total cost, and whether the search
// hit its deadline before completing (in which case cols may still
// hold a valid best-so-far, or be nil if none was found in time).
// Shared by BranchAndBoundSolver and ZoneSeededGreedySolver's seed
// binding step.
func solveBipartite(ctx context.Context, couriers []*entity.Courier, orders []*entity.Order, deadline time.Duration) (cols []int, bestCost float64, timedOut bool) {
	l := len(couriers)
	c := len(orders)
	cPrime := c + 3
	if l > cPrime-3 {
		cPrime = l + 3
	}

	cost := make([][]float64, l)
	for i := range cost {
		cost[i] = make([]float64, cPrime)
		for j := 0; j < cPrime; j++ {
			if j >= c {
				cost[i][j] = bnbDummyCost
				continue
			}
			score := Score(couriers[i], orders[j])
			if score > 0 && canAdd(couriers[i], nil, orders[j]) {
				cost[i][j] = 1 - score
			} else {
				cost[i][j] = bnbBlockedCost
			}
		}
	}

	rowMin := make([]float64, l)
	for i := range cost {
		m := cost[i][0]
		for _, v := range cost[i] {
			if v < m {
				m = v
			}
		}
		rowMin[i] = m
	}

	st := &bnbState{
		cost:     cost,
		rowMin:   rowMin,
		used:     make([]bool, cPrime),
		bestCost: math.Inf(1),
		deadline: time.Now().Add(deadline),
	}

	assignment := make([]int, l)
	for i := range assignment {
		assignment[i] = -1
	}
	st.branch(ctx, 0, assignment, 0.0)

	return st.best, st.bestCost, st.deadlineHit
}

func (st *bnbState) lowerBound(level int) float64 {
	if level >= len(st.rowMin) {
		return 0
	}
	var sum float64
	for i := level; i < len(st.rowMin); i++ {
		sum += st.rowMin[i]
	}
	return sum
}

func (st *bnbState) branch(ctx context.Context, row int, assignment []int, currentCost float64) {
	if st.deadlineHit {
		return
	}
	select {
	case <-ctx.Done():
		st.deadlineHit = true
		return
	default:
	}
	if time.Now().After(st.deadline) {
		st.deadlineHit = true
		return
	}

	if row == len(assignment) {
		if currentCost < st.bestCost {
			st.bestCost = currentCost
			st.best = append([]int(nil), assignment...)
		}
		return
	}

	lb := currentCost + st.lowerBound(row)
	if lb >= st.bestCost {
		return
	}

	cols := make([]int, len(st.cost[row]))
	for i := range cols {
		cols[i] = i
	}
	sort.Slice(cols, func(a, b int) bool { return st.cost[row][cols[a]] < st.cost[row][cols[b]] })

	for _, col := range cols {
		if st.used[col] {
			continue
		}
		newCost := currentCost + st.cost[row][col]
		if newCost >= st.bestCost {
			continue
		}

		st.used[col] = true
		assignment[row] = col
		st.branch(ctx, row+1, assignment, newCost)
		st.used[col] = false
		assignment[row] = -1

		if st.deadlineHit {
			return
		}
	}
}
