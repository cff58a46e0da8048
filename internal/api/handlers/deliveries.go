package handlers

import (
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/ports"
	"net/http"

	"github.com/rs/zerolog/log"
)

// DeliveryHandler exposes read-only delivery retrieval endpoints.
type DeliveryHandler struct {
	Repo ports.DeliveryRepository
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := dto.ListDeliveriesResponse{Deliveries: []dto.DeliveryResponse{}}
	if h.Repo == nil {
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	deliveries, err := h.Repo.ListDeliveries(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list deliveries failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, d := range deliveries {
		res.Deliveries = append(res.Deliveries, dto.DeliveryResponse{
			Customer:  d.Customer,
			Latitude:  d.Coordinates.Lat,
			Longitude: d.Coordinates.Lon,
			Priority:  d.Priority.String(),
			WeightKg:  d.WeightKg,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
