package repository

import (
	"context"

	"github.com/saan-system/services/optimization/internal/domain/entity"
)

// CourierRepository defines the contract for courier data persistence:
// load the active fleet, update status, and persist a battery reading
// after a run.
type CourierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Courier, error)
	GetAvailable(ctx context.Context) ([]*entity.Courier, error)
	UpdateStatus(ctx context.Context, id string, status entity.CourierStatus) error
	UpdateBatteryLevel(ctx context.Context, id string, levelKwh float64) error
}
