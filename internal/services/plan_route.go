package services

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/ports"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNegativeGamma = errors.New("priority gamma must be non-negative")

type PlanRouteRequest struct {
	Depot domain.Depot
	// Deliveries to route. When empty the repository is consulted.
	Deliveries []domain.Delivery
	Mode       domain.TransportMode
	// Objective selects the scoring metric.
	Objective domain.Objective
	// OrderBy selects which greedy order is built into rows.
	OrderBy domain.Objective
	Weights domain.WeightTriple
	Gamma   float64
	StartAt time.Time
}

// PlanRoute computes all greedy orders, scores the one selected by OrderBy
// and builds its rows.
func PlanRoute(
	ctx context.Context,
	req PlanRouteRequest,
	repo ports.DeliveryRepository,
	provider ports.DistanceProvider,
) (*domain.RoutePlan, error) {
	if err := req.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}
	if !(req.Gamma >= 0) {
		return nil, fmt.Errorf("plan route: %w: %v", ErrNegativeGamma, req.Gamma)
	}

	deliveries, err := resolveDeliveries(ctx, req.Deliveries, repo)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	opt, err := NewRouteOptimizer(req.Depot, deliveries, req.Mode, req.Objective, provider)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	orderBy := req.OrderBy
	if orderBy == 0 {
		orderBy = domain.ObjectiveTime
	}

	orders := opt.ClosestRouteOrder(OrderOptions{
		Multiobjective: true,
		Gamma:          req.Gamma,
		Weights:        req.Weights,
	})
	chosen := orders.ByObjective(orderBy)

	score, actual := opt.RouteScores(chosen, req.Weights)

	start := req.StartAt
	if start.IsZero() {
		start = time.Now()
	}
	rows := opt.RouteBuilder(chosen, start)

	metrics.RoutesPlanned.WithLabelValues(req.Mode.String(), orderBy.String()).Inc()

	return &domain.RoutePlan{
		RunID:       uuid.NewString(),
		Mode:        req.Mode,
		Objective:   req.Objective,
		OrderBy:     orderBy,
		Gamma:       req.Gamma,
		Weights:     req.Weights,
		StartAt:     start,
		Depot:       req.Depot,
		Order:       chosen,
		Score:       score,
		ActualHours: actual,
		Totals:      opt.RouteTotals(chosen, true),
		Summary:     Summarize(rows),
		Rows:        rows,
	}, nil
}

type PlanParetoRequest struct {
	Depot      domain.Depot
	Deliveries []domain.Delivery
	Mode       domain.TransportMode
	Sweep      SweepOptions
}

// PlanPareto runs the weight sweep with a multi-objective optimizer, going
// through the sweep cache when one is configured.
func PlanPareto(
	ctx context.Context,
	req PlanParetoRequest,
	repo ports.DeliveryRepository,
	provider ports.DistanceProvider,
	cache ports.SweepCache,
) (*domain.ParetoFront, error) {
	for _, g := range req.Sweep.Gammas {
		if !(g >= 0) {
			return nil, fmt.Errorf("plan pareto: %w: %v", ErrNegativeGamma, g)
		}
	}

	deliveries, err := resolveDeliveries(ctx, req.Deliveries, repo)
	if err != nil {
		return nil, fmt.Errorf("plan pareto: %w", err)
	}

	opt, err := NewRouteOptimizer(req.Depot, deliveries, req.Mode, domain.ObjectiveMulti, provider)
	if err != nil {
		return nil, fmt.Errorf("plan pareto: %w", err)
	}

	front, err := CachedPareto(ctx, cache, opt, req.Sweep)
	if err != nil {
		return nil, fmt.Errorf("plan pareto: %w", err)
	}
	return front, nil
}

func resolveDeliveries(
	ctx context.Context,
	given []domain.Delivery,
	repo ports.DeliveryRepository,
) ([]domain.Delivery, error) {
	if len(given) > 0 || repo == nil {
		return given, nil
	}

	deliveries, err := repo.ListDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return deliveries, nil
}
