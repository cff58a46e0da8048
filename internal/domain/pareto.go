package domain

import "time"

// Raw (unweighted) route performance: hours, NOK and grams of CO2.
type Performance struct {
	Time float64 `json:"time_h"`
	Cost float64 `json:"cost_nok"`
	CO2  float64 `json:"co2_g"`
}

// One distinct route found by the weight sweep.
type ParetoCandidate struct {
	Gamma        float64      `json:"gamma"`
	Weights      WeightTriple `json:"weights"`
	Order        []int        `json:"order"`
	Performance  Performance  `json:"performance"`
	NonDominated bool         `json:"non_dominated"`
}

// Result of a Pareto sweep. NonDominated indexes Candidates in discovery order.
type ParetoFront struct {
	Candidates   []ParetoCandidate `json:"candidates"`
	NonDominated []int             `json:"non_dominated"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
