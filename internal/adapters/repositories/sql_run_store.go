package repositories

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/obs"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the RunStore port. A route and its rows are
// written in one transaction.
type SQLRunStore struct {
	DB      *sql.DB
	Dialect db.Dialect
	now     func() time.Time
}

func NewSQLRunStore(conn *sql.DB, dialect db.Dialect) *SQLRunStore {
	return &SQLRunStore{DB: conn, Dialect: dialect, now: time.Now}
}

func (s *SQLRunStore) SaveRoute(ctx context.Context, plan *domain.RoutePlan) (err error) {
	defer obs.Time(ctx, "runs.store.SaveRoute")(&err)

	if s.DB == nil {
		return errors.New("sql run store: DB is nil")
	}
	if plan == nil || plan.RunID == "" {
		return errors.New("save route: plan with run id is required")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO routes (
		run_id, created_at, mode, objective, order_by, gamma,
		w_time, w_cost, w_co2, score, actual_hours,
		distance_km, cost_nok, co2_g, stops
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`),
		plan.RunID,
		s.now().UTC().Format(time.RFC3339Nano),
		plan.Mode.String(),
		plan.Objective.String(),
		plan.OrderBy.String(),
		plan.Gamma,
		plan.Weights.Time,
		plan.Weights.Cost,
		plan.Weights.CO2,
		plan.Score,
		plan.ActualHours,
		plan.Summary.DistanceKm,
		plan.Summary.CostNOK,
		plan.Summary.CO2g,
		plan.Summary.Stops,
	)
	if err != nil {
		return fmt.Errorf("save route run_id=%s: insert route: %w", plan.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO route_rows (
		run_id, seq, customer, lat, lon,
		distance_from_previous, cumulative_distance, eta,
		time_to_current, cost_to_current, co2_to_current
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save route: prepare rows: %w", err)
	}
	defer stmt.Close()

	for i, r := range plan.Rows {
		if _, err := stmt.ExecContext(ctx,
			plan.RunID, i, r.Customer, r.Latitude, r.Longitude,
			r.DistanceFromPrevious, r.CumulativeDistance, r.ETA.UTC().Format(time.RFC3339),
			r.TimeToCurrent, r.CostToCurrent, r.CO2ToCurrent,
		); err != nil {
			return fmt.Errorf("save route run_id=%s: insert row %d: %w", plan.RunID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route: commit tx: %w", err)
	}
	return nil
}

func (s *SQLRunStore) SaveParetoFront(ctx context.Context, runID string, front *domain.ParetoFront) (err error) {
	defer obs.Time(ctx, "runs.store.SaveParetoFront")(&err)

	if s.DB == nil {
		return errors.New("sql run store: DB is nil")
	}
	if runID == "" || front == nil {
		return errors.New("save pareto front: run id and front are required")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save pareto front: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO pareto_candidates (
		run_id, idx, generated_at, gamma,
		w_time, w_cost, w_co2,
		time_h, cost_nok, co2_g,
		non_dominated, route_order
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save pareto front: prepare insert: %w", err)
	}
	defer stmt.Close()

	generated := front.GeneratedAt.UTC().Format(time.RFC3339Nano)
	for i, c := range front.Candidates {
		order, err := json.Marshal(c.Order)
		if err != nil {
			return fmt.Errorf("save pareto front: encode order %d: %w", i, err)
		}

		nd := 0
		if c.NonDominated {
			nd = 1
		}

		if _, err := stmt.ExecContext(ctx,
			runID, i, generated, c.Gamma,
			c.Weights.Time, c.Weights.Cost, c.Weights.CO2,
			c.Performance.Time, c.Performance.Cost, c.Performance.CO2,
			nd, string(order),
		); err != nil {
			return fmt.Errorf("save pareto front run_id=%s: insert candidate %d: %w", runID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save pareto front: commit tx: %w", err)
	}
	return nil
}
