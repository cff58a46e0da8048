package dto

import (
	"courier-route-service/internal/domain"
	"time"
)

// ParetoRequest takes the route inputs plus the sweep grid. Objective,
// order_by, weights and gamma are ignored.
type ParetoRequest struct {
	RouteRequest
	Steps  *int      `json:"steps"`
	Gammas []float64 `json:"gammas"`
}

type CandidateResponse struct {
	Gamma        float64             `json:"gamma"`
	Weights      domain.WeightTriple `json:"weights"`
	Order        []int               `json:"order"`
	TimeH        float64             `json:"time_h"`
	CostNOK      float64             `json:"cost_nok"`
	CO2g         float64             `json:"co2_g"`
	NonDominated bool                `json:"non_dominated"`
}

type ParetoResponse struct {
	RunID        string              `json:"run_id"`
	Mode         string              `json:"mode"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Candidates   []CandidateResponse `json:"candidates"`
	NonDominated []int               `json:"non_dominated"`
	Rejected     []RejectedResponse  `json:"rejected"`
}

func NewParetoResponse(runID string, mode domain.TransportMode, front *domain.ParetoFront, rejected []RejectedResponse) ParetoResponse {
	candidates := make([]CandidateResponse, 0, len(front.Candidates))
	for _, c := range front.Candidates {
		candidates = append(candidates, CandidateResponse{
			Gamma:        c.Gamma,
			Weights:      c.Weights,
			Order:        c.Order,
			TimeH:        c.Performance.Time,
			CostNOK:      c.Performance.Cost,
			CO2g:         c.Performance.CO2,
			NonDominated: c.NonDominated,
		})
	}

	nonDominated := front.NonDominated
	if nonDominated == nil {
		nonDominated = []int{}
	}

	return ParetoResponse{
		RunID:        runID,
		Mode:         mode.String(),
		GeneratedAt:  front.GeneratedAt,
		Candidates:   candidates,
		NonDominated: nonDominated,
		Rejected:     rejected,
	}
}
