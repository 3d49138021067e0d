package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/saan-system/services/optimization/internal/domain/entity"
	"github.com/saan-system/services/optimization/internal/domain/repository"
	"github.com/saan-system/services/optimization/internal/geo"
)

type orderRow struct {
	ID                 string    `db:"id"`
	Lat                float64   `db:"lat"`
	Lon                float64   `db:"lon"`
	WeightKg           float64   `db:"weight_kg"`
	Priority           int       `db:"priority"`
	TimeWindowStart    int       `db:"time_window_start"`
	TimeWindowEnd      int       `db:"time_window_end"`
	ServiceTimeMinutes int       `db:"service_time_minutes"`
	Address            string    `db:"address"`
	ClientName         string    `db:"client_name"`
	ClientPhone        string    `db:"client_phone"`
	Status             string    `db:"status"`
	CreatedAt          time.Time `db:"created_at"`
}

func (r orderRow) toEntity() *entity.Order {
	return &entity.Order{
		ID:                 r.ID,
		Location:            geo.Point{Lat: r.Lat, Lon: r.Lon},
		WeightKg:           r.WeightKg,
		Priority:           entity.Priority(r.Priority),
		TimeWindowStart:    r.TimeWindowStart,
		TimeWindowEnd:      r.TimeWindowEnd,
		ServiceTimeMinutes: r.ServiceTimeMinutes,
		Address:            r.Address,
		ClientName:         r.ClientName,
		ClientPhone:        r.ClientPhone,
		Status:             entity.OrderStatus(r.Status),
		CreatedAt:          r.CreatedAt,
	}
}

// OrderRepository implements repository.OrderRepository against
// Postgres, following vehicle_repository.go's query style.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *sqlx.DB) repository.OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, lat, lon, weight_kg, priority, time_window_start, time_window_end,
	   service_time_minutes, address, client_name, client_phone, status, created_at`

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var row orderRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return row.toEntity(), nil
}

// GetPending retrieves every order still awaiting assignment, the
// demand the assignment stage partitions across the fleet.
func (r *OrderRepository) GetPending(ctx context.Context) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY priority, created_at`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, entity.OrderStatusPending); err != nil {
		return nil, fmt.Errorf("failed to get pending orders: %w", err)
	}

	orders := make([]*entity.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.toEntity()
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order not found: %s", id)
	}

	return nil
}

// AssignOrders writes back one optimization run's disposition for a
// batch of orders in a single statement: courierID is the empty string
// for orders that ended up in Assignment.Unassigned, in which case
// assigned_courier_id is cleared.
func (r *OrderRepository) AssignOrders(ctx context.Context, courierID string, orderIDs []string, status entity.OrderStatus) error {
	if len(orderIDs) == 0 {
		return nil
	}

	var assignedCourier sql.NullString
	if courierID != "" {
		assignedCourier = sql.NullString{String: courierID, Valid: true}
	}

	query := `
		UPDATE orders SET
			status = $1,
			assigned_courier_id = $2
		WHERE id = ANY($3)`

	_, err := r.db.ExecContext(ctx, query, status, assignedCourier, pq.Array(orderIDs))
	if err != nil {
		return fmt.Errorf("failed to assign orders: %w", err)
	}

	return nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
