package handlers

import (
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"net/http"
	"time"
)

type RouteHandler struct {
	Repo         ports.DeliveryRepository
	Provider     ports.DistanceProvider
	Store        ports.RunStore
	DefaultDepot domain.Depot
}

// Plan validates the request deliveries, builds the selected greedy route and
// stores the run when a store is configured.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := parseRouteInput(req, h.DefaultDepot)
	if err != nil {
		writeServiceError(w, r, "routes.plan", err, nil)
		return
	}
	if in.Given && len(in.Deliveries) == 0 {
		writeServiceError(w, r, "routes.plan", services.ErrNoDeliveries, in.Rejected)
		return
	}

	objective, err := parseObjective(req.Objective)
	if err != nil {
		writeServiceError(w, r, "routes.plan", err, nil)
		return
	}
	orderBy, err := parseObjective(req.OrderBy)
	if err != nil {
		writeServiceError(w, r, "routes.plan", err, nil)
		return
	}

	weights := domain.DefaultWeights
	if req.Weights != nil {
		weights = *req.Weights
	}
	gamma := services.DefaultGamma
	if req.Gamma != nil {
		gamma = *req.Gamma
	}
	start := time.Now()
	if req.StartAt != nil {
		start = *req.StartAt
	}

	plan, err := services.PlanRoute(r.Context(), services.PlanRouteRequest{
		Depot:      in.Depot,
		Deliveries: in.Deliveries,
		Mode:       in.Mode,
		Objective:  objective,
		OrderBy:    orderBy,
		Weights:    weights,
		Gamma:      gamma,
		StartAt:    start,
	}, h.Repo, h.Provider)
	if err != nil {
		writeServiceError(w, r, "routes.plan", err, in.Rejected)
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveRoute(r.Context(), plan); err != nil {
			writeServiceError(w, r, "routes.save", err, nil)
			return
		}
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(plan, in.Rejected))
}
