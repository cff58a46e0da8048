package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Objective names the metric a route is scored (or ordered) by.
type Objective uint8

const (
	ObjectiveTime Objective = iota + 1
	ObjectiveCost
	ObjectiveCO2
	ObjectiveMulti
)

var ErrUnknownObjective = errors.New("unknown objective (want time/cost/co2/multi)")

func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time":
		return ObjectiveTime, nil
	case "cost":
		return ObjectiveCost, nil
	case "co2":
		return ObjectiveCO2, nil
	case "multi":
		return ObjectiveMulti, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownObjective, s)
}

func (o Objective) String() string {
	switch o {
	case ObjectiveTime:
		return "time"
	case ObjectiveCost:
		return "cost"
	case ObjectiveCO2:
		return "co2"
	case ObjectiveMulti:
		return "multi"
	}
	return fmt.Sprintf("Objective(%d)", uint8(o))
}

// Per-metric weights for multi-objective ordering and scoring.
// Components are non-negative and need not sum to 1.
type WeightTriple struct {
	Time float64 `json:"time"`
	Cost float64 `json:"cost"`
	CO2  float64 `json:"co2"`
}

// DefaultWeights is the reference triple used when no weights are given.
var DefaultWeights = WeightTriple{Time: 0.9167, Cost: 0.0833, CO2: 0.5896}

var ErrNegativeWeight = errors.New("weights must be non-negative")

func (w WeightTriple) Validate() error {
	if !(w.Time >= 0 && w.Cost >= 0 && w.CO2 >= 0) {
		return fmt.Errorf("%w: %+v", ErrNegativeWeight, w)
	}
	return nil
}
