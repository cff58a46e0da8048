package services

import (
	"courier-route-service/internal/adapters/distance"
	"courier-route-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	hubCoords  = domain.Coordinates{Lat: 0, Lon: 0}
	farCoords  = domain.Coordinates{Lat: 0, Lon: 1}
	nearCoords = domain.Coordinates{Lat: 0, Lon: 0.01}
)

// equalLegs makes both stops exactly 5 km from the hub and 2 km apart, whatever
// their real positions.
func equalLegs() *distance.MockDistanceProvider {
	return distance.NewMockDistanceProvider([]distance.MockPair{
		{From: hubCoords, To: farCoords, Km: 5},
		{From: hubCoords, To: nearCoords, Km: 5},
		{From: farCoords, To: nearCoords, Km: 2},
	})
}

func newMockOptimizer(t *testing.T, deliveries []domain.Delivery) *RouteOptimizer {
	t.Helper()
	hub := domain.Depot{Name: "Hub", Coordinates: hubCoords}
	opt, err := NewRouteOptimizer(hub, deliveries, domain.ModeCar, domain.ObjectiveMulti, equalLegs())
	require.NoError(t, err)
	return opt
}

func TestClosestRouteOrderExactTieUsesProvider(t *testing.T) {
	// Haversine would visit "Near" first; the provider says both are 5 km.
	deliveries := []domain.Delivery{
		{Customer: "Far", Coordinates: farCoords, Priority: domain.PriorityMedium, WeightKg: 1},
		{Customer: "Near", Coordinates: nearCoords, Priority: domain.PriorityMedium, WeightKg: 1},
	}
	opt := newMockOptimizer(t, deliveries)

	for _, gamma := range []float64{0, 0.2, 1.6} {
		orders := opt.ClosestRouteOrder(OrderOptions{Multiobjective: true, Gamma: gamma, Weights: domain.DefaultWeights})
		require.Equal(t, []int{0, 1}, orders.Time, "gamma=%v", gamma)
		require.Equal(t, []int{0, 1}, orders.Cost, "gamma=%v", gamma)
		require.Equal(t, []int{0, 1}, orders.CO2, "gamma=%v", gamma)
		require.Equal(t, []int{0, 1}, orders.Multi, "gamma=%v", gamma)
	}

	// Swapping the input swaps the winner.
	swapped := newMockOptimizer(t, []domain.Delivery{deliveries[1], deliveries[0]})
	orders := swapped.ClosestRouteOrder(OrderOptions{Gamma: 0.2})
	require.Equal(t, []int{0, 1}, orders.Time)
}

func TestClosestRouteOrderPriorityBreaksEqualDistance(t *testing.T) {
	deliveries := []domain.Delivery{
		{Customer: "Low", Coordinates: farCoords, Priority: domain.PriorityLow, WeightKg: 1},
		{Customer: "High", Coordinates: nearCoords, Priority: domain.PriorityHigh, WeightKg: 1},
	}
	opt := newMockOptimizer(t, deliveries)

	timeOnly := domain.WeightTriple{Time: 1}
	for _, gamma := range []float64{0, 0.2, 0.6, 1.0, 1.6} {
		orders := opt.ClosestRouteOrder(OrderOptions{Multiobjective: true, Gamma: gamma, Weights: timeOnly})
		require.Equal(t, []int{1, 0}, orders.Time, "gamma=%v", gamma)
		require.Equal(t, []int{1, 0}, orders.Multi, "gamma=%v", gamma)
		// Cost and CO2 ignore priority and fall back to the lowest index.
		require.Equal(t, []int{0, 1}, orders.Cost, "gamma=%v", gamma)
	}
}

func TestRouteBuilderUsesProviderDistances(t *testing.T) {
	deliveries := []domain.Delivery{
		{Customer: "Low", Coordinates: farCoords, Priority: domain.PriorityLow, WeightKg: 1},
		{Customer: "High", Coordinates: nearCoords, Priority: domain.PriorityHigh, WeightKg: 1},
	}
	opt := newMockOptimizer(t, deliveries)

	rows := opt.RouteBuilder([]int{1, 0}, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	require.Len(t, rows, 4)
	require.Equal(t, []string{"Hub", "High", "Low", "Hub"}, []string{rows[0].Customer, rows[1].Customer, rows[2].Customer, rows[3].Customer})
	require.InDelta(t, 5, rows[1].DistanceFromPrevious, 1e-9)
	require.InDelta(t, 2, rows[2].DistanceFromPrevious, 1e-9)
	require.InDelta(t, 12, rows[3].CumulativeDistance, 1e-9)
}
