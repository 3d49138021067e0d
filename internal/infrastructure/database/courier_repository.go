package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/domain/repository"
	"github.com/saan-system/services/optimization/internal/geo"
)

// courierRow mirrors the couriers table; sqlx scans into it directly and
// CourierRepository converts to/from entity.Courier, the same split
// vehicle_repository.go would use if entity.DeliveryVehicle carried
// unexported fields.
type courierRow struct {
	ID                      string    `db:"id"`
	Name                    string    `db:"name"`
	Status                  string    `db:"status"`
	DepotLat                float64   `db:"depot_lat"`
	DepotLon                float64   `db:"depot_lon"`
	CapacityKg              float64   `db:"capacity_kg"`
	SpeedKmh                float64   `db:"speed_kmh"`
	CostPerKm               float64   `db:"cost_per_km"`
	WorkdayStart            int       `db:"workday_start"`
	WorkdayEnd              int       `db:"workday_end"`
	BatteryMaxMinutes       float64   `db:"battery_max_minutes"`
	BatteryRemainingMinutes float64   `db:"battery_remaining_minutes"`
	RechargeRate            float64   `db:"recharge_rate"`
	UpdatedAt               time.Time `db:"updated_at"`
}

func (r courierRow) toEntity() *entity.Courier {
	return &entity.Courier{
		ID:                      r.ID,
		Name:                    r.Name,
		Status:                  entity.CourierStatus(r.Status),
		DepotLocation:           geo.Point{Lat: r.DepotLat, Lon: r.DepotLon},
		CapacityKg:              r.CapacityKg,
		SpeedKmh:                r.SpeedKmh,
		CostPerKm:               r.CostPerKm,
		WorkdayStart:            r.WorkdayStart,
		WorkdayEnd:              r.WorkdayEnd,
		BatteryMaxMinutes:       r.BatteryMaxMinutes,
		BatteryRemainingMinutes: r.BatteryRemainingMinutes,
		RechargeRate:            r.RechargeRate,
		UpdatedAt:               r.UpdatedAt,
	}
}

// CourierRepository implements repository.CourierRepository against
// Postgres, following vehicle_repository.go's query style.
type CourierRepository struct {
	db *sqlx.DB
}

// NewCourierRepository creates a new courier repository.
func NewCourierRepository(db *sqlx.DB) repository.CourierRepository {
	return &CourierRepository{db: db}
}

const courierColumns = `id, name, status, depot_lat, depot_lon, capacity_kg, speed_kmh,
	   cost_per_km, workday_start, workday_end, battery_max_minutes,
	   battery_remaining_minutes, recharge_rate, updated_at`

func (r *CourierRepository) GetByID(ctx context.Context, id string) (*entity.Courier, error) {
	query := `SELECT ` + courierColumns + ` FROM couriers WHERE id = $1`

	var row courierRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("courier not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get courier: %w", err)
	}

	return row.toEntity(), nil
}

// GetAvailable retrieves every courier whose status is "available",
// the fleet the assignment stage is allowed to bind orders to.
func (r *CourierRepository) GetAvailable(ctx context.Context) ([]*entity.Courier, error) {
	query := `SELECT ` + courierColumns + ` FROM couriers WHERE status = $1 ORDER BY id`

	var rows []courierRow
	if err := r.db.SelectContext(ctx, &rows, query, entity.CourierStatusAvailable); err != nil {
		return nil, fmt.Errorf("failed to get available couriers: %w", err)
	}

	couriers := make([]*entity.Courier, len(rows))
	for i, row := range rows {
		couriers[i] = row.toEntity()
	}
	return couriers, nil
}

func (r *CourierRepository) UpdateStatus(ctx context.Context, id string, status entity.CourierStatus) error {
	query := `UPDATE couriers SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update courier status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("courier not found: %s", id)
	}

	return nil
}

// UpdateBatteryLevel persists the battery reading left on a courier at
// the end of an optimization run's route execution.
func (r *CourierRepository) UpdateBatteryLevel(ctx context.Context, id string, levelKwh float64) error {
	query := `UPDATE couriers SET battery_remaining_minutes = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, levelKwh, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update courier battery level: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("courier not found: %s", id)
	}

	return nil
}

var _ repository.CourierRepository = (*CourierRepository)(nil)
