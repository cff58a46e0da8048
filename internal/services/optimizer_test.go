package services

import (
	"courier-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRouteOptimizerErrors(t *testing.T) {
	_, err := NewRouteOptimizer(osloDepot, nil, domain.ModeCar, domain.ObjectiveTime, nil)
	require.ErrorIs(t, err, ErrNoDeliveries)

	bad := domain.Depot{Name: "Depot", Coordinates: domain.Coordinates{Lat: 95, Lon: 10}}
	_, err = NewRouteOptimizer(bad, osloDeliveries(), domain.ModeCar, domain.ObjectiveTime, nil)
	require.ErrorIs(t, err, ErrInvalidDepot)
	require.ErrorIs(t, err, domain.ErrInvalidCoordinates)

	_, err = NewRouteOptimizer(osloDepot, osloDeliveries(), domain.TransportMode(0), domain.ObjectiveTime, nil)
	require.ErrorIs(t, err, domain.ErrUnknownMode)

	_, err = NewRouteOptimizer(osloDepot, osloDeliveries(), domain.ModeCar, domain.Objective(0), nil)
	require.ErrorIs(t, err, domain.ErrUnknownObjective)
}

func TestClosestRouteOrderPermutations(t *testing.T) {
	deliveries := osloDeliveries()

	for _, mode := range []domain.TransportMode{domain.ModeCar, domain.ModeBicycle, domain.ModeWalk} {
		opt := newOptimizer(t, mode, domain.ObjectiveMulti, deliveries)
		for _, gamma := range []float64{0, 0.2, 1.6} {
			orders := opt.ClosestRouteOrder(OrderOptions{
				Multiobjective: true,
				Gamma:          gamma,
				Weights:        domain.DefaultWeights,
			})
			requirePermutation(t, orders.Time, len(deliveries))
			requirePermutation(t, orders.CO2, len(deliveries))
			requirePermutation(t, orders.Cost, len(deliveries))
			requirePermutation(t, orders.Multi, len(deliveries))
		}
	}
}

func TestClosestRouteOrderWithoutMulti(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveTime, osloDeliveries())

	orders := opt.ClosestRouteOrder(OrderOptions{Gamma: 0.6})
	require.NotNil(t, orders.Multi)
	require.Empty(t, orders.Multi)
	requirePermutation(t, orders.Time, 8)
}

func TestClosestRouteOrderDeterministic(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())
	opts := OrderOptions{Multiobjective: true, Gamma: 0.6, Weights: domain.WeightTriple{Time: 0.5, Cost: 0.25, CO2: 0.25}}

	first := opt.ClosestRouteOrder(opts)
	second := opt.ClosestRouteOrder(opts)
	require.Equal(t, first, second)
}

func TestClosestRouteOrderNearestFirst(t *testing.T) {
	line := []domain.Delivery{
		{Customer: "Far", Coordinates: domain.Coordinates{Lat: 59.9439, Lon: 10.7522}, Priority: domain.PriorityMedium, WeightKg: 1},
		{Customer: "Near", Coordinates: domain.Coordinates{Lat: 59.9239, Lon: 10.7522}, Priority: domain.PriorityMedium, WeightKg: 1},
		{Customer: "Mid", Coordinates: domain.Coordinates{Lat: 59.9339, Lon: 10.7522}, Priority: domain.PriorityMedium, WeightKg: 1},
	}
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveTime, line)

	orders := opt.ClosestRouteOrder(OrderOptions{Multiobjective: true, Gamma: 0.2, Weights: domain.DefaultWeights})
	require.Equal(t, []int{1, 2, 0}, orders.Time)
	require.Equal(t, []int{1, 2, 0}, orders.CO2)
	require.Equal(t, []int{1, 2, 0}, orders.Cost)
	require.Equal(t, []int{1, 2, 0}, orders.Multi)
}

func TestClosestRouteOrderPriorityEffect(t *testing.T) {
	depot := domain.Depot{Name: "Depot", Coordinates: domain.Coordinates{Lat: 0, Lon: 0}}
	deliveries := []domain.Delivery{
		{Customer: "Low", Coordinates: domain.Coordinates{Lat: 0.01, Lon: 0}, Priority: domain.PriorityLow, WeightKg: 1},
		{Customer: "High", Coordinates: domain.Coordinates{Lat: -0.01, Lon: 0}, Priority: domain.PriorityHigh, WeightKg: 1},
	}
	opt, err := NewRouteOptimizer(depot, deliveries, domain.ModeCar, domain.ObjectiveTime, nil)
	require.NoError(t, err)

	for _, gamma := range []float64{0.2, 0.6, 1.0, 1.6} {
		orders := opt.ClosestRouteOrder(OrderOptions{Gamma: gamma})
		require.Equal(t, []int{1, 0}, orders.Time, "gamma=%v", gamma)
	}
}

func TestClosestRouteOrderTieBreakLowestIndex(t *testing.T) {
	// Bicycles have zero cost and emissions, so every cost/co2 key ties.
	opt := newOptimizer(t, domain.ModeBicycle, domain.ObjectiveCost, osloDeliveries())

	orders := opt.ClosestRouteOrder(OrderOptions{})
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, orders.Cost)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, orders.CO2)
}

func TestClosestRouteOrderAllAtDepot(t *testing.T) {
	same := []domain.Delivery{
		{Customer: "A", Coordinates: osloDepot.Coordinates, Priority: domain.PriorityLow, WeightKg: 1},
		{Customer: "B", Coordinates: osloDepot.Coordinates, Priority: domain.PriorityHigh, WeightKg: 1},
		{Customer: "C", Coordinates: osloDepot.Coordinates, Priority: domain.PriorityMedium, WeightKg: 1},
	}
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveTime, same)

	orders := opt.ClosestRouteOrder(OrderOptions{Multiobjective: true, Gamma: 1, Weights: domain.DefaultWeights})
	require.Equal(t, []int{0, 1, 2}, orders.Time)
	require.Equal(t, []int{0, 1, 2}, orders.Multi)
}

func TestMultiOrderTimeOnlyMatchesTimeOrder(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())

	for _, gamma := range []float64{0, 0.6, 1.6} {
		orders := opt.ClosestRouteOrder(OrderOptions{Gamma: gamma})
		multi := opt.MultiOrder(gamma, domain.WeightTriple{Time: 1})
		require.Equal(t, orders.Time, multi, "gamma=%v", gamma)
	}
}
