package services

import (
	"context"
	"courier-route-service/internal/adapters/distance"
	"courier-route-service/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeightGridSingleStep(t *testing.T) {
	grid := WeightGrid(1)
	require.Equal(t, []domain.WeightTriple{
		{Time: 0, Cost: 0, CO2: 1},
		{Time: 0, Cost: 1, CO2: 0},
		{Time: 1, Cost: 0, CO2: 0},
	}, grid)
}

func TestWeightGridCounts(t *testing.T) {
	for steps := 1; steps <= 12; steps++ {
		grid := WeightGrid(steps)
		require.Len(t, grid, (steps+1)*(steps+2)/2)
		for _, w := range grid {
			require.InDelta(t, 1.0, w.Time+w.Cost+w.CO2, 1e-12)
			require.NotEqual(t, domain.WeightTriple{}, w)
		}
	}
	require.Nil(t, WeightGrid(0))
}

func TestDominanceFilter(t *testing.T) {
	points := []domain.Performance{
		{Time: 1, Cost: 1, CO2: 1},
		{Time: 2, Cost: 2, CO2: 2},
		{Time: 1, Cost: 2, CO2: 0},
	}
	require.Equal(t, []int{0, 2}, ParetoIndices(points))

	require.True(t, Dominates(points[0], points[1]))
	require.False(t, Dominates(points[0], points[2]))
	require.False(t, Dominates(points[2], points[0]))
	require.False(t, Dominates(points[0], points[0]))
}

func TestDominanceFilterDuplicatesSurvive(t *testing.T) {
	points := []domain.Performance{
		{Time: 1, Cost: 1, CO2: 1},
		{Time: 1, Cost: 1, CO2: 1},
		{Time: 1, Cost: 1, CO2: 2},
	}
	require.Equal(t, []int{0, 1}, ParetoIndices(points))
	require.Empty(t, ParetoIndices(nil))
}

func TestEvaluateParetoSingleStep(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())

	front, err := EvaluatePareto(context.Background(), opt, SweepOptions{Steps: 1, Gammas: []float64{0.2, 1.0}})
	require.NoError(t, err)
	require.Len(t, front.Candidates, 6)

	grid := WeightGrid(1)
	for i, c := range front.Candidates {
		require.Equal(t, grid[i%3], c.Weights)
		if i < 3 {
			require.Equal(t, 0.2, c.Gamma)
		} else {
			require.Equal(t, 1.0, c.Gamma)
		}
		requirePermutation(t, c.Order, 8)

		totals := opt.RouteTotals(c.Order, false)
		require.Equal(t, domain.Performance{Time: totals.TActual, Cost: totals.Cost, CO2: totals.CO2}, c.Performance)
	}
	requireFrontConsistent(t, front)
}

func TestEvaluateParetoSkipsDuplicateKeys(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())

	front, err := EvaluatePareto(context.Background(), opt, SweepOptions{Steps: 2, Gammas: []float64{0.6, 0.6}})
	require.NoError(t, err)
	require.Len(t, front.Candidates, len(WeightGrid(2)))
}

func TestEvaluateParetoMatchesSequential(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())
	ctx := context.Background()

	sequential, err := EvaluatePareto(ctx, opt, SweepOptions{Steps: 6, Workers: 1})
	require.NoError(t, err)
	parallel, err := EvaluatePareto(ctx, opt, SweepOptions{Steps: 6, Workers: 8})
	require.NoError(t, err)

	require.Equal(t, sequential.Candidates, parallel.Candidates)
	require.Equal(t, sequential.NonDominated, parallel.NonDominated)
	require.Len(t, sequential.Candidates, len(DefaultGammas)*len(WeightGrid(6)))
	requireFrontConsistent(t, sequential)
}

func TestEvaluateParetoInvalidSteps(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())

	_, err := EvaluatePareto(context.Background(), opt, SweepOptions{Steps: -1})
	require.ErrorIs(t, err, ErrInvalidSteps)
}

func TestEvaluateParetoCanceled(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EvaluatePareto(ctx, opt, SweepOptions{Steps: 4})
	require.ErrorIs(t, err, context.Canceled)
}

type memorySweepCache struct {
	fronts map[string]*domain.ParetoFront
	gets   int
	puts   int
	err    error
}

func (m *memorySweepCache) Get(_ context.Context, key string) (*domain.ParetoFront, error) {
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	return m.fronts[key], nil
}

func (m *memorySweepCache) Put(_ context.Context, key string, front *domain.ParetoFront) error {
	m.puts++
	if m.err != nil {
		return m.err
	}
	m.fronts[key] = front
	return nil
}

func TestCachedPareto(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())
	cache := &memorySweepCache{fronts: map[string]*domain.ParetoFront{}}
	ctx := context.Background()
	opts := SweepOptions{Steps: 3}

	first, err := CachedPareto(ctx, cache, opt, opts)
	require.NoError(t, err)
	require.Equal(t, 1, cache.puts)

	second, err := CachedPareto(ctx, cache, opt, opts)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, cache.puts)
	require.Equal(t, 2, cache.gets)

	other, err := CachedPareto(ctx, cache, opt, SweepOptions{Steps: 4})
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.Equal(t, 2, cache.puts)
}

func TestCachedParetoDegradesOnCacheError(t *testing.T) {
	opt := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())
	cache := &memorySweepCache{fronts: map[string]*domain.ParetoFront{}, err: errors.New("redis down")}

	front, err := CachedPareto(context.Background(), cache, opt, SweepOptions{Steps: 2})
	require.NoError(t, err)
	require.NotEmpty(t, front.Candidates)
}

func TestSweepFingerprint(t *testing.T) {
	a := newOptimizer(t, domain.ModeCar, domain.ObjectiveMulti, osloDeliveries())
	b := newOptimizer(t, domain.ModeWalk, domain.ObjectiveMulti, osloDeliveries())

	require.Equal(t, SweepFingerprint(a, SweepOptions{}), SweepFingerprint(a, SweepOptions{Steps: DefaultParetoSteps, Gammas: DefaultGammas}))
	require.NotEqual(t, SweepFingerprint(a, SweepOptions{}), SweepFingerprint(b, SweepOptions{}))
	require.NotEqual(t, SweepFingerprint(a, SweepOptions{Steps: 3}), SweepFingerprint(a, SweepOptions{Steps: 4}))
	require.Equal(t, SweepFingerprint(a, SweepOptions{Workers: 1}), SweepFingerprint(a, SweepOptions{Workers: 4}))

	mocked, err := NewRouteOptimizer(osloDepot, osloDeliveries(), domain.ModeCar, domain.ObjectiveMulti, distance.NewMockDistanceProvider(nil))
	require.NoError(t, err)
	require.NotEqual(t, SweepFingerprint(a, SweepOptions{}), SweepFingerprint(mocked, SweepOptions{}))
}

// requireFrontConsistent checks that the marked subset is exactly the set of
// candidates no other candidate dominates.
func requireFrontConsistent(t *testing.T, front *domain.ParetoFront) {
	t.Helper()
	require.NotEmpty(t, front.NonDominated)

	marked := make(map[int]bool, len(front.NonDominated))
	for _, i := range front.NonDominated {
		marked[i] = true
	}
	for i, c := range front.Candidates {
		require.Equal(t, marked[i], c.NonDominated, "candidate %d", i)

		dominated := false
		for j, o := range front.Candidates {
			if i != j && Dominates(o.Performance, c.Performance) {
				dominated = true
			}
		}
		require.Equal(t, !dominated, c.NonDominated, "candidate %d", i)
	}
}
