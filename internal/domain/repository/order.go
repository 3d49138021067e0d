package repository

import (
	"context"

	"github.com/saan-system/services/optimization/internal/domain/entity"
)

// OrderRepository defines the contract for order data persistence.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetPending(ctx context.Context) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error

	// AssignOrders writes back the orchestrator's final disposition for
	// one optimization run: courierID is empty for orders that ended up
	// in Assignment.Unassigned.
	AssignOrders(ctx context.Context, courierID string, orderIDs []string, status entity.OrderStatus) error
}
