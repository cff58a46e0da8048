package repositories

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the DeliveryRepository port.
type SQLDeliveryRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLDeliveryRepository(conn *sql.DB, dialect db.Dialect) *SQLDeliveryRepository {
	return &SQLDeliveryRepository{DB: conn, Dialect: dialect}
}

type storedDelivery struct {
	ID       int
	Delivery domain.Delivery
}

// Return all deliveries stored in the database, ordered by id.
func (s *SQLDeliveryRepository) ListDeliveries(ctx context.Context) (_ []domain.Delivery, err error) {
	defer obs.Time(ctx, "deliveries.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql delivery repository: DB is nil")
	}

	query := `
	SELECT
		customer,
		lat,
		lon,
		priority,
		weight_kg
	FROM deliveries
	ORDER BY delivery_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	deliveries := make([]domain.Delivery, 0, 64)
	for rows.Next() {
		var d domain.Delivery
		var priority string
		if err := rows.Scan(&d.Customer, &d.Coordinates.Lat, &d.Coordinates.Lon, &priority, &d.WeightKg); err != nil {
			return nil, fmt.Errorf("list deliveries: scan row: %w", err)
		}
		if d.Priority, err = domain.ParsePriority(priority); err != nil {
			return nil, fmt.Errorf("list deliveries: customer %q: %w", d.Customer, err)
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: row iteration: %w", err)
	}

	return deliveries, nil
}

func upsertDeliveries(ctx context.Context, conn *sql.DB, dialect db.Dialect, rows []storedDelivery) error {
	if conn == nil {
		return errors.New("upsert deliveries: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO deliveries (delivery_id, customer, lat, lon, priority, weight_kg)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (delivery_id) DO UPDATE
	SET customer = EXCLUDED.customer,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		priority = EXCLUDED.priority,
		weight_kg = EXCLUDED.weight_kg;
	`))
	if err != nil {
		return fmt.Errorf("upsert deliveries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		d := r.Delivery
		if _, err := stmt.ExecContext(ctx, r.ID, d.Customer, d.Coordinates.Lat, d.Coordinates.Lon, d.Priority.String(), d.WeightKg); err != nil {
			return fmt.Errorf("upsert deliveries: delivery_id=%d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert deliveries: commit tx: %w", err)
	}
	return nil
}
