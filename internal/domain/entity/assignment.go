package entity

import "time"

// Assignment is the output of the assignment stage: a partition of
// the order set across couriers, plus the disjoint set of orders no
// solver could place under capacity/availability/weather constraints.
type Assignment struct {
	// CourierOrders maps courier id to its ordered (pre-TSP) order id
	// list. Solvers populate this in whatever order they claimed the
	// orders; TSP refinement produces the final tour order.
	CourierOrders map[string][]string
	Unassigned    []string

	TotalCost float64

	// SolverName records which Solver produced this partition, carried
	// through to the diagnostic slot for observability.
	SolverName string

	CreatedAt time.Time
}

// NewAssignment constructs an empty Assignment for the named solver.
func NewAssignment(solverName string) *Assignment {
	return &Assignment{
		CourierOrders: make(map[string][]string),
		SolverName:    solverName,
		CreatedAt:     time.Now(),
	}
}

// Assign appends orderID to courierID's order list.
func (a *Assignment) Assign(courierID, orderID string) {
	a.CourierOrders[courierID] = append(a.CourierOrders[courierID], orderID)
}

// MarkUnassigned appends orderID to the unassigned set.
func (a *Assignment) MarkUnassigned(orderID string) {
	a.Unassigned = append(a.Unassigned, orderID)
}

// OrdersFor returns the order ids currently claimed by courierID.
func (a *Assignment) OrdersFor(courierID string) []string {
	return a.CourierOrders[courierID]
}
