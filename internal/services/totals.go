package services

import (
	"courier-route-service/internal/domain"
	"math"
)

// leg is one hop of the depot -> stops -> depot walk. Dest is the delivery
// index reached, or -1 for the return to the depot.
type leg struct {
	Dest     int
	Distance float64
	Hours    float64
	Cost     float64
	CO2      float64
}

// walk replays an order as legs, including the return leg. An empty order
// yields no legs.
func (o *RouteOptimizer) walk(order []int, visit func(leg)) {
	if len(order) == 0 {
		return
	}

	current := o.depot.Coordinates
	for _, k := range order {
		next := o.deliveries[k].Coordinates
		d := o.distance.Distance(current, next)
		hours, cost, co2 := o.profile.Leg(d)
		visit(leg{Dest: k, Distance: d, Hours: hours, Cost: cost, CO2: co2})
		current = next
	}

	d := o.distance.Distance(current, o.depot.Coordinates)
	hours, cost, co2 := o.profile.Leg(d)
	visit(leg{Dest: -1, Distance: d, Hours: hours, Cost: cost, CO2: co2})
}

// RouteTotals aggregates time, cost and CO2 over the order plus depot legs.
//
// Cost, CO2 and TActual are unweighted. Time multiplies each leg by the
// urgency of the delivery it reaches when priorityOnTime is set; the return
// to the depot is never weighted.
func (o *RouteOptimizer) RouteTotals(order []int, priorityOnTime bool) domain.RouteTotals {
	var t domain.RouteTotals

	o.walk(order, func(l leg) {
		w := 1.0
		if priorityOnTime && l.Dest >= 0 {
			w = o.deliveries[l.Dest].Priority.UrgencyWeight()
		}
		t.Time += w * l.Hours
		t.Cost += l.Cost
		t.CO2 += l.CO2
		t.TActual += l.Hours
	})

	return t
}

// referenceTotals is the "dedicated round trip per delivery" baseline used to
// normalize route totals.
func (o *RouteOptimizer) referenceTotals() domain.RouteTotals {
	var ref domain.RouteTotals
	p := o.profile

	for _, d := range o.deliveries {
		dist := o.distance.Distance(o.depot.Coordinates, d.Coordinates)
		oneWay := dist / p.SpeedKmh

		ref.Cost += 2.0 * dist * p.CostPerKm
		ref.CO2 += 2.0 * dist * p.CO2PerKm
		ref.Time += d.Priority.UrgencyWeight()*oneWay + oneWay
	}

	ref.Time = math.Max(ref.Time, zeroDivisor)
	ref.Cost = math.Max(ref.Cost, zeroDivisor)
	ref.CO2 = math.Max(ref.CO2, zeroDivisor)
	return ref
}

// RouteScores normalizes the priority-weighted totals of an order against the
// round-trip baseline and returns the score for the optimizer's objective
// together with the unweighted travel time in hours.
//
// For the multi objective the per-metric scores are combined with w. Every
// returned score lies in [0,1].
func (o *RouteOptimizer) RouteScores(order []int, w domain.WeightTriple) (float64, float64) {
	totals := o.RouteTotals(order, true)
	ref := o.referenceTotals()

	timeScore := clamp01(totals.Time / ref.Time)
	costScore := clamp01(totals.Cost / ref.Cost)
	co2Score := clamp01(totals.CO2 / ref.CO2)

	var score float64
	switch o.objective {
	case domain.ObjectiveMulti:
		score = clamp01(w.Time*timeScore + w.Cost*costScore + w.CO2*co2Score)
	case domain.ObjectiveCost:
		score = costScore
	case domain.ObjectiveCO2:
		score = co2Score
	default:
		score = timeScore
	}

	return score, totals.TActual
}

func clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
