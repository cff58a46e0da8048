package handlers

import (
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Sweeps above these sizes are refused to bound request cost.
const (
	maxParetoSteps  = 50
	maxParetoGammas = 16
)

type ParetoHandler struct {
	Repo         ports.DeliveryRepository
	Provider     ports.DistanceProvider
	Cache        ports.SweepCache
	Store        ports.RunStore
	DefaultDepot domain.Depot
	Workers      int
}

// Sweep runs the weight grid over the request (or stored) deliveries and
// returns every distinct candidate with its dominance flag.
func (h *ParetoHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ParetoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := parseRouteInput(req.RouteRequest, h.DefaultDepot)
	if err != nil {
		writeServiceError(w, r, "pareto.sweep", err, nil)
		return
	}
	if in.Given && len(in.Deliveries) == 0 {
		writeServiceError(w, r, "pareto.sweep", services.ErrNoDeliveries, in.Rejected)
		return
	}

	if len(req.Gammas) > maxParetoGammas {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d gammas are allowed", maxParetoGammas))
		return
	}

	opts := services.SweepOptions{Gammas: req.Gammas, Workers: h.Workers}
	if req.Steps != nil {
		if *req.Steps < 1 || *req.Steps > maxParetoSteps {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("steps must be between 1 and %d", maxParetoSteps))
			return
		}
		opts.Steps = *req.Steps
	}

	front, err := services.PlanPareto(r.Context(), services.PlanParetoRequest{
		Depot:      in.Depot,
		Deliveries: in.Deliveries,
		Mode:       in.Mode,
		Sweep:      opts,
	}, h.Repo, h.Provider, h.Cache)
	if err != nil {
		writeServiceError(w, r, "pareto.sweep", err, in.Rejected)
		return
	}

	runID := uuid.NewString()
	if h.Store != nil {
		if err := h.Store.SaveParetoFront(r.Context(), runID, front); err != nil {
			writeServiceError(w, r, "pareto.save", err, nil)
			return
		}
	}

	writeJSON(w, r, http.StatusOK, dto.NewParetoResponse(runID, in.Mode, front, in.Rejected))
}
