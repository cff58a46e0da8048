package ports

import (
	"context"
	"courier-route-service/internal/domain"
)

// Port: cache of Pareto sweep results keyed by an input fingerprint.
type SweepCache interface {
	// Return the cached front, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) (*domain.ParetoFront, error)
	Put(ctx context.Context, key string, front *domain.ParetoFront) error
}
