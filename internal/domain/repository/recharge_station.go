package repository

import (
	"context"

	"github.com/saan-system/services/optimization/internal/domain/entity"
)

// RechargeStationRepository defines the contract for loading the
// recharge-station catalog consulted by the route executor's battery
// guard. The catalog may live in the database or be seeded from a
// config-provided JSON file (see internal/infrastructure/database and
// internal/platform/config).
type RechargeStationRepository interface {
	GetAll(ctx context.Context) ([]*entity.RechargeStation, error)
	GetByID(ctx context.Context, id string) (*entity.RechargeStation, error)
}
