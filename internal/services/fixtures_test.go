package services

import (
	"courier-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

var osloDepot = domain.Depot{Name: "Depot", Coordinates: domain.Coordinates{Lat: 59.9139, Lon: 10.7522}}

func osloDeliveries() []domain.Delivery {
	return []domain.Delivery{
		{Customer: "Ola Nordmann", Coordinates: domain.Coordinates{Lat: 59.9270, Lon: 10.7161}, Priority: domain.PriorityHigh, WeightKg: 2.0},
		{Customer: "Kari Hansen", Coordinates: domain.Coordinates{Lat: 59.9065, Lon: 10.7683}, Priority: domain.PriorityMedium, WeightKg: 1.2},
		{Customer: "Per Olsen", Coordinates: domain.Coordinates{Lat: 59.9340, Lon: 10.7890}, Priority: domain.PriorityLow, WeightKg: 5.5},
		{Customer: "Åse Berg", Coordinates: domain.Coordinates{Lat: 59.8990, Lon: 10.7300}, Priority: domain.PriorityHigh, WeightKg: 0.4},
		{Customer: "Jørgen Lie", Coordinates: domain.Coordinates{Lat: 59.9450, Lon: 10.7200}, Priority: domain.PriorityMedium, WeightKg: 3.1},
		{Customer: "Ingrid Dahl", Coordinates: domain.Coordinates{Lat: 59.9180, Lon: 10.8010}, Priority: domain.PriorityLow, WeightKg: 0.9},
		{Customer: "O'Neill", Coordinates: domain.Coordinates{Lat: 59.9010, Lon: 10.7890}, Priority: domain.PriorityMedium, WeightKg: 1.0},
		{Customer: "Silje Moe", Coordinates: domain.Coordinates{Lat: 59.9300, Lon: 10.7450}, Priority: domain.PriorityHigh, WeightKg: 2.2},
	}
}

func newOptimizer(t *testing.T, mode domain.TransportMode, obj domain.Objective, deliveries []domain.Delivery) *RouteOptimizer {
	t.Helper()
	opt, err := NewRouteOptimizer(osloDepot, deliveries, mode, obj, nil)
	require.NoError(t, err)
	return opt
}

func requirePermutation(t *testing.T, order []int, n int) {
	t.Helper()
	require.Len(t, order, n)
	seen := make(map[int]bool, n)
	for _, k := range order {
		require.GreaterOrEqual(t, k, 0)
		require.Less(t, k, n)
		require.False(t, seen[k], "index %d repeated in %v", k, order)
		seen[k] = true
	}
}
