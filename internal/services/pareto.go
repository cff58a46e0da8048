package services

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultParetoSteps = 12

// DefaultGammas are the priority exponents swept when none are given.
var DefaultGammas = []float64{0.2, 0.6, 1.0, 1.6}

var ErrInvalidSteps = errors.New("pareto steps must be at least 1")

type SweepOptions struct {
	// Steps is the weight grid resolution: every (i,j,k) with i+j+k = Steps.
	// Zero means DefaultParetoSteps.
	Steps int
	// Gammas are swept in the given order, each over the full grid.
	Gammas []float64
	// Workers bounds concurrent grid cells. Zero means GOMAXPROCS.
	Workers int
}

func (s SweepOptions) withDefaults() SweepOptions {
	if s.Steps == 0 {
		s.Steps = DefaultParetoSteps
	}
	if len(s.Gammas) == 0 {
		s.Gammas = DefaultGammas
	}
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// WeightGrid enumerates (i,j,k)/steps for all non-negative integers with
// i+j+k = steps, i ascending then j ascending. Steps below 1 yield nil.
func WeightGrid(steps int) []domain.WeightTriple {
	if steps < 1 {
		return nil
	}

	n := float64(steps)
	grid := make([]domain.WeightTriple, 0, (steps+1)*(steps+2)/2)
	for i := 0; i <= steps; i++ {
		for j := 0; j <= steps-i; j++ {
			k := steps - i - j
			grid = append(grid, domain.WeightTriple{
				Time: float64(i) / n,
				Cost: float64(j) / n,
				CO2:  float64(k) / n,
			})
		}
	}
	return grid
}

type sweepCell struct {
	gamma   float64
	weights domain.WeightTriple
}

// EvaluatePareto re-runs the multi-objective order for every (gamma, weight)
// pair, records the raw performance of each distinct route and marks the
// non-dominated ones.
//
// Cells run concurrently but are collected in grid order, so the result is
// identical to a sequential sweep.
func EvaluatePareto(
	ctx context.Context,
	opt *RouteOptimizer,
	opts SweepOptions,
) (_ *domain.ParetoFront, err error) {
	defer obs.Time(ctx, "pareto.Evaluate")(&err)
	start := time.Now()

	opts = opts.withDefaults()
	if opts.Steps < 1 {
		return nil, fmt.Errorf("evaluate pareto: %w: %d", ErrInvalidSteps, opts.Steps)
	}

	grid := WeightGrid(opts.Steps)
	cells := make([]sweepCell, 0, len(opts.Gammas)*len(grid))
	for _, gamma := range opts.Gammas {
		for _, w := range grid {
			cells = append(cells, sweepCell{gamma: gamma, weights: w})
		}
	}

	orders := make([][]int, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, c := range cells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			orders[i] = opt.MultiOrder(c.gamma, c.weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate pareto: %w", err)
	}

	front := &domain.ParetoFront{
		Candidates:  make([]domain.ParetoCandidate, 0, len(cells)),
		GeneratedAt: time.Now(),
	}

	seen := make(map[string]struct{}, len(cells))
	for i, c := range cells {
		key := candidateKey(orders[i], c.gamma, c.weights)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		totals := opt.RouteTotals(orders[i], false)
		front.Candidates = append(front.Candidates, domain.ParetoCandidate{
			Gamma:   c.gamma,
			Weights: c.weights,
			Order:   orders[i],
			Performance: domain.Performance{
				Time: totals.TActual,
				Cost: totals.Cost,
				CO2:  totals.CO2,
			},
		})
	}

	points := make([]domain.Performance, len(front.Candidates))
	for i, c := range front.Candidates {
		points[i] = c.Performance
	}
	front.NonDominated = ParetoIndices(points)
	for _, i := range front.NonDominated {
		front.Candidates[i].NonDominated = true
	}

	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	metrics.SweepCandidates.WithLabelValues("all").Observe(float64(len(front.Candidates)))
	metrics.SweepCandidates.WithLabelValues("non_dominated").Observe(float64(len(front.NonDominated)))

	return front, nil
}

// CachedPareto serves a sweep from cache when possible. Cache failures are
// logged and fall through to a fresh sweep.
func CachedPareto(
	ctx context.Context,
	cache ports.SweepCache,
	opt *RouteOptimizer,
	opts SweepOptions,
) (*domain.ParetoFront, error) {
	if cache == nil {
		return EvaluatePareto(ctx, opt, opts)
	}

	key := SweepFingerprint(opt, opts)
	front, err := cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("pareto cache read failed")
	}
	if front != nil {
		metrics.SweepCacheLookups.WithLabelValues("hit").Inc()
		return front, nil
	}
	metrics.SweepCacheLookups.WithLabelValues("miss").Inc()

	front, err = EvaluatePareto(ctx, opt, opts)
	if err != nil {
		return nil, err
	}

	if err := cache.Put(ctx, key, front); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("pareto cache write failed")
	}
	return front, nil
}

// SweepFingerprint hashes every input that determines a sweep's result,
// including the distance provider's type.
func SweepFingerprint(opt *RouteOptimizer, opts SweepOptions) string {
	opts = opts.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "provider=%T;mode=%s;steps=%d;gammas=", opt.distance, opt.mode, opts.Steps)
	for _, g := range opts.Gammas {
		b.WriteString(strconv.FormatFloat(g, 'g', -1, 64))
		b.WriteByte(',')
	}
	fmt.Fprintf(&b, ";depot=%v,%v", opt.depot.Coordinates.Lat, opt.depot.Coordinates.Lon)
	for _, d := range opt.deliveries {
		fmt.Fprintf(&b, ";%v,%v,%s", d.Coordinates.Lat, d.Coordinates.Lon, d.Priority)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func candidateKey(order []int, gamma float64, w domain.WeightTriple) string {
	var b strings.Builder
	for _, k := range order {
		b.WriteString(strconv.Itoa(k))
		b.WriteByte(',')
	}
	for _, v := range []float64{gamma, w.Time, w.Cost, w.CO2} {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(round(v, 6), 'f', 6, 64))
	}
	return b.String()
}
