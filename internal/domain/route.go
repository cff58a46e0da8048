package domain

import "time"

// Visiting orders produced by one greedy pass per variant. Each non-empty
// order is a permutation of the delivery indices.
type RouteOrders struct {
	Time  []int
	CO2   []int
	Cost  []int
	Multi []int
}

// ByObjective returns the order built for the given objective.
func (o RouteOrders) ByObjective(obj Objective) []int {
	switch obj {
	case ObjectiveCost:
		return o.Cost
	case ObjectiveCO2:
		return o.CO2
	case ObjectiveMulti:
		return o.Multi
	}
	return o.Time
}

// Aggregate metrics of one depot -> stops -> depot walk.
// Time may be urgency-weighted; TActual is always the raw travel time in hours.
type RouteTotals struct {
	Time    float64
	Cost    float64
	CO2     float64
	TActual float64
}

// Represents a single row of a built route. The first and last rows are the
// depot. Leg metrics are rounded to 2 decimals and coordinates to 6.
type RouteRow struct {
	Customer             string
	Latitude             float64
	Longitude            float64
	DistanceFromPrevious float64
	CumulativeDistance   float64
	ETA                  time.Time
	TimeToCurrent        float64
	CostToCurrent        float64
	CO2ToCurrent         float64
}

// Totals summed over the rows of a built route.
type RouteSummary struct {
	Stops      int
	DistanceKm float64
	Hours      float64
	CostNOK    float64
	CO2g       float64
}

// Represents the planned route for one courier run.
// A RoutePlan is the output of the optimizer and contains no side effects.
type RoutePlan struct {
	RunID       string
	Mode        TransportMode
	Objective   Objective
	OrderBy     Objective
	Gamma       float64
	Weights     WeightTriple
	StartAt     time.Time
	Depot       Depot
	Order       []int
	Score       float64
	ActualHours float64
	Totals      RouteTotals
	Summary     RouteSummary
	Rows        []RouteRow
}
