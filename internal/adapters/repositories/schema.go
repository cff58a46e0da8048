package repositories

import (
	"context"
	"courier-route-service/internal/adapters/files"
	"courier-route-service/internal/platform/db"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// The statements are portable between SQLite and Postgres.
var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS deliveries (
		delivery_id INTEGER PRIMARY KEY,
		customer TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		priority TEXT NOT NULL,
		weight_kg DOUBLE PRECISION NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS routes (
		run_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		mode TEXT NOT NULL,
		objective TEXT NOT NULL,
		order_by TEXT NOT NULL,
		gamma DOUBLE PRECISION NOT NULL,
		w_time DOUBLE PRECISION NOT NULL,
		w_cost DOUBLE PRECISION NOT NULL,
		w_co2 DOUBLE PRECISION NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		actual_hours DOUBLE PRECISION NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		cost_nok DOUBLE PRECISION NOT NULL,
		co2_g DOUBLE PRECISION NOT NULL,
		stops INTEGER NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS route_rows (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		customer TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		distance_from_previous DOUBLE PRECISION NOT NULL,
		cumulative_distance DOUBLE PRECISION NOT NULL,
		eta TEXT NOT NULL,
		time_to_current DOUBLE PRECISION NOT NULL,
		cost_to_current DOUBLE PRECISION NOT NULL,
		co2_to_current DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS pareto_candidates (
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		generated_at TEXT NOT NULL,
		gamma DOUBLE PRECISION NOT NULL,
		w_time DOUBLE PRECISION NOT NULL,
		w_cost DOUBLE PRECISION NOT NULL,
		w_co2 DOUBLE PRECISION NOT NULL,
		time_h DOUBLE PRECISION NOT NULL,
		cost_nok DOUBLE PRECISION NOT NULL,
		co2_g DOUBLE PRECISION NOT NULL,
		non_dominated INTEGER NOT NULL,
		route_order TEXT NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS sweep_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_pareto_candidates_non_dominated
	ON pareto_candidates(run_id, non_dominated);
	`,
}

// Initialize the database schema.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// DeliverySeed is one record of a seed file. Numeric fields may be JSON
// numbers or strings with decimal commas.
type DeliverySeed struct {
	DeliveryID int             `json:"delivery_id"`
	Customer   string          `json:"customer"`
	Latitude   json.RawMessage `json:"latitude"`
	Longitude  json.RawMessage `json:"longitude"`
	Priority   string          `json:"priority"`
	WeightKg   json.RawMessage `json:"weight_kg"`
}

// Populate the deliveries table from a JSON file. Rows are upserted by id.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed deliveries: read %q: %w", jsonPath, err)
	}

	var data []DeliverySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed deliveries: parse json: %w", err)
	}

	rows := make([]storedDelivery, 0, len(data))
	for i, item := range data {
		if item.DeliveryID <= 0 {
			return 0, fmt.Errorf("seed deliveries: invalid delivery_id at index %d: %d", i+1, item.DeliveryID)
		}

		d, err := files.ParseDelivery(
			item.Customer,
			rawNumber(item.Latitude),
			rawNumber(item.Longitude),
			item.Priority,
			rawNumber(item.WeightKg),
		)
		if err != nil {
			return 0, fmt.Errorf("seed deliveries: delivery_id=%d: %w", item.DeliveryID, err)
		}
		rows = append(rows, storedDelivery{ID: item.DeliveryID, Delivery: d})
	}

	if err := upsertDeliveries(ctx, conn, dialect, rows); err != nil {
		return 0, fmt.Errorf("seed deliveries: %w", err)
	}
	return len(rows), nil
}

// rawNumber unwraps a JSON string or returns the literal number text.
func rawNumber(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return string(raw)
}
