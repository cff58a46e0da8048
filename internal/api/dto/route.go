package dto

import (
	"courier-route-service/internal/domain"
	"time"
)

type DepotRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type RouteRequest struct {
	Depot      *DepotRequest        `json:"depot"`
	Deliveries []DeliveryRequest    `json:"deliveries"`
	Mode       string               `json:"mode"`
	Objective  string               `json:"objective"`
	OrderBy    string               `json:"order_by"`
	Weights    *domain.WeightTriple `json:"weights"`
	Gamma      *float64             `json:"gamma"`
	StartAt    *time.Time           `json:"start_at"`
}

type RouteRowResponse struct {
	Customer             string    `json:"customer"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	DistanceFromPrevious float64   `json:"distance_from_previous"`
	CumulativeDistance   float64   `json:"cumulative_distance"`
	ETA                  time.Time `json:"eta_from_start"`
	TimeToCurrent        float64   `json:"time_to_current"`
	CostToCurrent        float64   `json:"cost_to_current"`
	CO2ToCurrent         float64   `json:"co2_to_current"`
}

type SummaryResponse struct {
	Stops      int     `json:"stops"`
	DistanceKm float64 `json:"distance_km"`
	Hours      float64 `json:"hours"`
	CostNOK    float64 `json:"cost_nok"`
	CO2g       float64 `json:"co2_g"`
}

type RouteResponse struct {
	RunID       string              `json:"run_id"`
	Mode        string              `json:"mode"`
	Objective   string              `json:"objective"`
	OrderBy     string              `json:"order_by"`
	Gamma       float64             `json:"gamma"`
	Weights     domain.WeightTriple `json:"weights"`
	StartAt     time.Time           `json:"start_at"`
	Score       float64             `json:"score"`
	ActualHours float64             `json:"actual_hours"`
	Order       []int               `json:"order"`
	Summary     SummaryResponse     `json:"summary"`
	Rows        []RouteRowResponse  `json:"rows"`
	Rejected    []RejectedResponse  `json:"rejected"`
}

// ErrorResponse carries rejected records alongside the error when a request
// had no valid deliveries.
type ErrorResponse struct {
	Error    string             `json:"error"`
	Rejected []RejectedResponse `json:"rejected,omitempty"`
}

func NewRouteResponse(plan *domain.RoutePlan, rejected []RejectedResponse) RouteResponse {
	rows := make([]RouteRowResponse, 0, len(plan.Rows))
	for _, r := range plan.Rows {
		rows = append(rows, RouteRowResponse{
			Customer:             r.Customer,
			Latitude:             r.Latitude,
			Longitude:            r.Longitude,
			DistanceFromPrevious: r.DistanceFromPrevious,
			CumulativeDistance:   r.CumulativeDistance,
			ETA:                  r.ETA,
			TimeToCurrent:        r.TimeToCurrent,
			CostToCurrent:        r.CostToCurrent,
			CO2ToCurrent:         r.CO2ToCurrent,
		})
	}

	return RouteResponse{
		RunID:       plan.RunID,
		Mode:        plan.Mode.String(),
		Objective:   plan.Objective.String(),
		OrderBy:     plan.OrderBy.String(),
		Gamma:       plan.Gamma,
		Weights:     plan.Weights,
		StartAt:     plan.StartAt,
		Score:       plan.Score,
		ActualHours: plan.ActualHours,
		Order:       plan.Order,
		Summary: SummaryResponse{
			Stops:      plan.Summary.Stops,
			DistanceKm: plan.Summary.DistanceKm,
			Hours:      plan.Summary.Hours,
			CostNOK:    plan.Summary.CostNOK,
			CO2g:       plan.Summary.CO2g,
		},
		Rows:     rows,
		Rejected: rejected,
	}
}
