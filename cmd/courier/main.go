package main

import (
	"context"
	"courier-route-service/internal/adapters/files"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/config"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/services"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	_ "modernc.org/sqlite"
)

const (
	exitOK           = 0
	exitConfig       = 1
	exitNoDeliveries = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config.LoadEnv()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one courier planning run and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadCLI(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}
	obs.SetupLogger(cfg.Environment, "info")

	depot, err := files.LoadDepot(cfg.Depot)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	deliveries, rejected, err := files.LoadDeliveries(cfg.Deliveries)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	if len(rejected) > 0 {
		err := files.WriteFile(cfg.Rejected, func(w io.Writer) error { return files.WriteRejectedCSV(w, rejected) })
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitConfig
		}
		log.Warn().Int("rejected", len(rejected)).Str("path", cfg.Rejected).Msg("invalid delivery rows skipped")
	}

	if len(deliveries) == 0 {
		fmt.Fprintln(stderr, services.ErrNoDeliveries.Error())
		return exitNoDeliveries
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Now()
	}

	plan, err := services.PlanRoute(ctx, services.PlanRouteRequest{
		Depot:      depot,
		Deliveries: deliveries,
		Mode:       cfg.Mode,
		Objective:  cfg.Objective,
		OrderBy:    cfg.OrderBy,
		Weights:    cfg.Weights,
		Gamma:      cfg.Gamma,
		StartAt:    start,
	}, nil, nil)
	if errors.Is(err, services.ErrNoDeliveries) {
		fmt.Fprintln(stderr, services.ErrNoDeliveries.Error())
		return exitNoDeliveries
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	if err := files.WriteFile(cfg.Output, func(w io.Writer) error { return files.WriteRouteCSV(w, plan.Rows) }); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	var front *domain.ParetoFront
	if cfg.Pareto {
		front, err = services.PlanPareto(ctx, services.PlanParetoRequest{
			Depot:      depot,
			Deliveries: deliveries,
			Mode:       cfg.Mode,
			Sweep:      services.SweepOptions{Steps: cfg.ParetoSteps},
		}, nil, nil, nil)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitConfig
		}

		write := func(w io.Writer) error { return files.WriteParetoCSV(w, front, front.GeneratedAt) }
		if err := files.WriteFile(cfg.ParetoOutput, write); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitConfig
		}
	}

	if cfg.XLSX != "" {
		at := time.Now()
		if front != nil {
			at = front.GeneratedAt
		}
		write := func(w io.Writer) error { return files.WriteWorkbook(w, plan.Rows, front, at) }
		if err := files.WriteFile(cfg.XLSX, write); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitConfig
		}
	}

	if cfg.Persist {
		if err := persist(ctx, cfg, plan, front); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitConfig
		}
	}

	printSummary(stdout, cfg, plan, front, len(rejected))
	return exitOK
}

func persist(ctx context.Context, cfg config.CLI, plan *domain.RoutePlan, front *domain.ParetoFront) error {
	conn, dialect, err := db.Connect(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	store := repositories.NewSQLRunStore(conn, dialect)
	if err := store.SaveRoute(ctx, plan); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if front != nil {
		if err := store.SaveParetoFront(ctx, plan.RunID, front); err != nil {
			return fmt.Errorf("persist: %w", err)
		}
	}
	return nil
}

func printSummary(w io.Writer, cfg config.CLI, plan *domain.RoutePlan, front *domain.ParetoFront, rejected int) {
	s := plan.Summary

	fmt.Fprintf(w, "Mode: %s | Objective: %s | Order: %s\n", plan.Mode, plan.Objective, plan.OrderBy)
	fmt.Fprintf(w, "Stops: %d (deliveries: %d, rejected: %d)\n", s.Stops, len(plan.Order), rejected)
	fmt.Fprintf(w, "Distance: %.2f km | Time: %.2f h | Cost: %.2f NOK | CO2: %.2f g\n", s.DistanceKm, s.Hours, s.CostNOK, s.CO2g)
	fmt.Fprintf(w, "Score: %.4f | Actual time: %.2f h\n", plan.Score, plan.ActualHours)
	fmt.Fprintf(w, "Route written to %s\n", cfg.Output)
	if rejected > 0 {
		fmt.Fprintf(w, "Rejected rows written to %s\n", cfg.Rejected)
	}
	if front != nil {
		fmt.Fprintf(w, "Pareto: %d candidates, %d non-dominated, written to %s\n",
			len(front.Candidates), len(front.NonDominated), cfg.ParetoOutput)
	}
	if cfg.XLSX != "" {
		fmt.Fprintf(w, "Workbook written to %s\n", cfg.XLSX)
	}
	if cfg.Persist {
		fmt.Fprintf(w, "Run %s stored\n", plan.RunID)
	}
}
