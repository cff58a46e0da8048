package services

import (
	"courier-route-service/internal/adapters/distance"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"errors"
	"fmt"
	"math"
	"slices"
)

// zeroDivisor replaces a zero distance maximum or normalization reference.
const zeroDivisor = 0.0001

var (
	ErrNoDeliveries = errors.New("no valid deliveries")
	ErrInvalidDepot = errors.New("invalid depot")
)

// RouteOptimizer builds and scores courier routes for one depot, delivery set
// and transport mode.
//
// Weights and the priority exponent are passed per call, so an optimizer holds
// no mutable state after construction and is safe for concurrent use.
type RouteOptimizer struct {
	depot      domain.Depot
	deliveries []domain.Delivery
	mode       domain.TransportMode
	profile    domain.ModeProfile
	distance   ports.DistanceProvider
}

func NewRouteOptimizer(
	depot domain.Depot,
	deliveries []domain.Delivery,
	mode domain.TransportMode,
	objective domain.Objective,
	provider ports.DistanceProvider,
) (*RouteOptimizer, error) {
	if err := depot.Coordinates.Validate(); err != nil {
		return nil, fmt.Errorf("new route optimizer: %w: %w", ErrInvalidDepot, err)
	}

	if len(deliveries) == 0 {
		return nil, fmt.Errorf("new route optimizer: %w", ErrNoDeliveries)
	}

	profile, ok := mode.Profile()
	if !ok {
		return nil, fmt.Errorf("new route optimizer: %w: %s", domain.ErrUnknownMode, mode)
	}

	switch objective {
	case domain.ObjectiveTime, domain.ObjectiveCost, domain.ObjectiveCO2, domain.ObjectiveMulti:
	default:
		return nil, fmt.Errorf("new route optimizer: %w: %s", domain.ErrUnknownObjective, objective)
	}

	if provider == nil {
		provider = distance.NewHaversineProvider()
	}

	return &RouteOptimizer{
		depot:      depot,
		deliveries: slices.Clone(deliveries),
		mode:       mode,
		profile:    profile,
		distance:   provider,
	}, nil
}

// OrderOptions parameterizes one ClosestRouteOrder call.
type OrderOptions struct {
	// Multiobjective enables the weighted multi variant.
	Multiobjective bool
	// Gamma is the priority-dynamic exponent; larger values amplify the
	// urgency multiplier of distant candidates.
	Gamma float64
	// Weights are used only by the multi variant.
	Weights domain.WeightTriple
}

// DefaultGamma is the priority exponent used when none is given.
const DefaultGamma = 0.2

// selectKey scores candidate k at distance d from the current position, where
// dMax is the largest distance among remaining candidates (never zero).
type selectKey func(k int, d, dMax float64) float64

// ClosestRouteOrder builds visiting orders with a greedy nearest-neighbor
// search under four keys: time, co2, cost and (optionally) multi.
//
// The algorithm minimizes the key at each step and never revisits a choice.
// It does not attempt global route optimization.
func (o *RouteOptimizer) ClosestRouteOrder(opts OrderOptions) domain.RouteOrders {
	p := o.profile

	orders := domain.RouteOrders{
		Time: o.greedyOrder(func(k int, d, dMax float64) float64 {
			return o.priorityDynamic(k, opts.Gamma, d, dMax) * d
		}),
		CO2: o.greedyOrder(func(_ int, d, _ float64) float64 {
			return p.CO2PerKm * d
		}),
		Cost: o.greedyOrder(func(_ int, d, _ float64) float64 {
			return p.CostPerKm * d
		}),
		Multi: []int{},
	}

	if opts.Multiobjective {
		orders.Multi = o.MultiOrder(opts.Gamma, opts.Weights)
	}

	return orders
}

// MultiOrder runs only the multi-objective variant.
func (o *RouteOptimizer) MultiOrder(gamma float64, w domain.WeightTriple) []int {
	p := o.profile
	return o.greedyOrder(func(k int, d, dMax float64) float64 {
		hours, cost, co2 := p.Leg(d)
		return w.Time*o.priorityDynamic(k, gamma, d, dMax)*hours + w.Cost*cost + w.CO2*co2
	})
}

// priorityDynamic scales the urgency weight by the candidate's relative
// distance: urgency ^ (1 + gamma * d/dMax).
func (o *RouteOptimizer) priorityDynamic(k int, gamma, d, dMax float64) float64 {
	base := o.deliveries[k].Priority.UrgencyWeight()
	return math.Pow(base, 1.0+gamma*d/dMax)
}

// greedyOrder is the single nearest-neighbor loop shared by every variant.
//
// Remaining indices are kept in ascending order and the minimum is taken with
// a strict comparison, so ties resolve to the lowest input index.
func (o *RouteOptimizer) greedyOrder(key selectKey) []int {
	n := len(o.deliveries)

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	order := make([]int, 0, n)
	dists := make([]float64, n)
	current := o.depot.Coordinates

	for len(remaining) > 0 {
		dMax := 0.0
		for i, k := range remaining {
			d := o.distance.Distance(current, o.deliveries[k].Coordinates)
			dists[i] = d
			if d > dMax {
				dMax = d
			}
		}
		if dMax == 0 {
			dMax = zeroDivisor
		}

		best := 0
		bestKey := key(remaining[0], dists[0], dMax)
		for i := 1; i < len(remaining); i++ {
			if v := key(remaining[i], dists[i], dMax); v < bestKey {
				best = i
				bestKey = v
			}
		}

		next := remaining[best]
		order = append(order, next)
		current = o.deliveries[next].Coordinates
		remaining = slices.Delete(remaining, best, best+1)
	}

	return order
}
