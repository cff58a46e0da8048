package ports

import (
	"context"
	"courier-route-service/internal/domain"
)

// Port: persistence of planned routes and sweep results.
type RunStore interface {
	SaveRoute(ctx context.Context, plan *domain.RoutePlan) error
	SaveParetoFront(ctx context.Context, runID string, front *domain.ParetoFront) error
}
