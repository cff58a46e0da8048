package config

import (
	"courier-route-service/internal/domain"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Setenv("COURIER_TEST_KEY", "value")
	require.Equal(t, "value", Get("COURIER_TEST_KEY", "fallback"))
	require.Equal(t, "fallback", Get("COURIER_TEST_UNSET", "fallback"))
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "data/app.db", cfg.DBPath)
	require.Empty(t, cfg.RedisURL)
	require.Equal(t, 30*time.Minute, cfg.SweepCacheTTL)
	require.Equal(t, domain.DefaultDepotName, cfg.Depot().Name)
	require.InDelta(t, 59.9139, cfg.Depot().Coordinates.Lat, 1e-9)
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("COURIER_PORT", "9090")
	t.Setenv("COURIER_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("COURIER_DEPOT_LAT", "60.39")
	t.Setenv("COURIER_DEPOT_LON", "5.32")
	t.Setenv("COURIER_DEPOT_NAME", "Bergen")
	t.Setenv("COURIER_SWEEP_CACHE_TTL", "5m")
	t.Setenv("COURIER_RATE_LIMIT_BURST", "7")

	cfg, err := LoadServer()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, 5*time.Minute, cfg.SweepCacheTTL)
	require.Equal(t, 7, cfg.RateLimitBurst)
	require.Equal(t, domain.Depot{Name: "Bergen", Coordinates: domain.Coordinates{Lat: 60.39, Lon: 5.32}}, cfg.Depot())
}

func TestLoadServerInvalidDepot(t *testing.T) {
	t.Setenv("COURIER_DEPOT_LAT", "120")
	_, err := LoadServer()
	require.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestLoadCLI(t *testing.T) {
	cfg, err := LoadCLI([]string{
		"--deliveries", "d.csv",
		"--depot", "depot.json",
		"--mode", "Bicycle",
		"--objective", "multi",
		"--order-by", "cost",
		"--w-time", "1",
		"--pareto",
		"--start", "2025-03-01T08:00",
	}, io.Discard)
	require.NoError(t, err)

	require.Equal(t, "d.csv", cfg.Deliveries)
	require.Equal(t, domain.ModeBicycle, cfg.Mode)
	require.Equal(t, domain.ObjectiveMulti, cfg.Objective)
	require.Equal(t, domain.ObjectiveCost, cfg.OrderBy)
	require.Equal(t, domain.WeightTriple{Time: 1, Cost: domain.DefaultWeights.Cost, CO2: domain.DefaultWeights.CO2}, cfg.Weights)
	require.InDelta(t, 0.2, cfg.Gamma, 1e-12)
	require.True(t, cfg.Pareto)
	require.Equal(t, 12, cfg.ParetoSteps)
	require.Equal(t, "route.csv", cfg.Output)
	require.Equal(t, "pareto_results.csv", cfg.ParetoOutput)
	require.Equal(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local), cfg.Start)
}

func TestLoadCLIEnvFallback(t *testing.T) {
	t.Setenv("COURIER_DELIVERIES", "env.csv")
	t.Setenv("COURIER_DEPOT", "env.json")
	t.Setenv("COURIER_MODE", "walk")
	t.Setenv("COURIER_PARETO_STEPS", "4")

	cfg, err := LoadCLI([]string{"--mode", "car"}, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "env.csv", cfg.Deliveries)
	require.Equal(t, domain.ModeCar, cfg.Mode)
	require.Equal(t, 4, cfg.ParetoSteps)
	require.True(t, cfg.Start.IsZero())
}

func TestLoadCLIErrors(t *testing.T) {
	_, err := LoadCLI(nil, io.Discard)
	require.ErrorIs(t, err, ErrMissingFlag)
	require.ErrorContains(t, err, "--deliveries, --depot, --mode")

	base := []string{"--deliveries", "d.csv", "--depot", "p.json"}

	_, err = LoadCLI(append(base, "--mode", "boat"), io.Discard)
	require.ErrorIs(t, err, domain.ErrUnknownMode)

	_, err = LoadCLI(append(base, "--mode", "car", "--objective", "speed"), io.Discard)
	require.ErrorIs(t, err, domain.ErrUnknownObjective)

	_, err = LoadCLI(append(base, "--mode", "car", "--w-cost", "-1"), io.Discard)
	require.ErrorIs(t, err, domain.ErrNegativeWeight)

	_, err = LoadCLI(append(base, "--mode", "car", "--gamma", "-0.5"), io.Discard)
	require.Error(t, err)

	_, err = LoadCLI(append(base, "--mode", "car", "--pareto-steps", "0"), io.Discard)
	require.Error(t, err)

	_, err = LoadCLI(append(base, "--mode", "car", "--start", "tomorrow"), io.Discard)
	require.ErrorContains(t, err, "invalid start time")

	_, err = LoadCLI([]string{"--no-such-flag"}, io.Discard)
	require.Error(t, err)
}
