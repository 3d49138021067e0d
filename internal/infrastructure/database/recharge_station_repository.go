package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/domain/repository"
	"github.com/saan-system/services/optimization/internal/geo"
)

type rechargeStationRow struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Lat           float64 `db:"lat"`
	Lon           float64 `db:"lon"`
	ChargeMinutes int     `db:"charge_minutes"`
}

func (r rechargeStationRow) toEntity() *entity.RechargeStation {
	return entity.NewRechargeStation(r.ID, r.Name, geo.Point{Lat: r.Lat, Lon: r.Lon}, r.ChargeMinutes)
}

// RechargeStationRepository implements repository.RechargeStationRepository
// against Postgres. The catalog is small and static within a run, so
// callers typically load it once via GetAll rather than querying
// per-courier.
type RechargeStationRepository struct {
	db *sqlx.DB
}

// NewRechargeStationRepository creates a new recharge station repository.
func NewRechargeStationRepository(db *sqlx.DB) repository.RechargeStationRepository {
	return &RechargeStationRepository{db: db}
}

const rechargeStationColumns = `id, name, lat, lon, charge_minutes`

func (r *RechargeStationRepository) GetAll(ctx context.Context) ([]*entity.RechargeStation, error) {
	query := `SELECT ` + rechargeStationColumns + ` FROM recharge_stations ORDER BY id`

	var rows []rechargeStationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get recharge stations: %w", err)
	}

	stations := make([]*entity.RechargeStation, len(rows))
	for i, row := range rows {
		stations[i] = row.toEntity()
	}
	return stations, nil
}

func (r *RechargeStationRepository) GetByID(ctx context.Context, id string) (*entity.RechargeStation, error) {
	query := `SELECT ` + rechargeStationColumns + ` FROM recharge_stations WHERE id = $1`

	var row rechargeStationRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("recharge station not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get recharge station: %w", err)
	}

	return row.toEntity(), nil
}

var _ repository.RechargeStationRepository = (*RechargeStationRepository)(nil)
