package handlers

import (
	"courier-route-service/internal/adapters/files"
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Request bodies above this size are rejected by the decoder.
const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// routeInput is the validated common part of route and pareto requests.
type routeInput struct {
	Depot      domain.Depot
	Mode       domain.TransportMode
	Deliveries []domain.Delivery
	Rejected   []dto.RejectedResponse
	// Given is set when the request carried its own deliveries.
	Given bool
}

func parseRouteInput(req dto.RouteRequest, defaultDepot domain.Depot) (routeInput, error) {
	in := routeInput{Depot: defaultDepot, Rejected: []dto.RejectedResponse{}}

	if req.Depot != nil {
		if req.Depot.Latitude == nil || req.Depot.Longitude == nil {
			return in, errors.Join(services.ErrInvalidDepot, errors.New("latitude and longitude are required"))
		}
		name := strings.TrimSpace(req.Depot.Name)
		if name == "" {
			name = domain.DefaultDepotName
		}
		in.Depot = domain.Depot{
			Name:        name,
			Coordinates: domain.Coordinates{Lat: *req.Depot.Latitude, Lon: *req.Depot.Longitude},
		}
	}
	if err := in.Depot.Coordinates.Validate(); err != nil {
		return in, errors.Join(services.ErrInvalidDepot, err)
	}

	mode, err := domain.ParseTransportMode(req.Mode)
	if err != nil {
		return in, err
	}
	in.Mode = mode

	in.Given = len(req.Deliveries) > 0
	in.Deliveries = make([]domain.Delivery, 0, len(req.Deliveries))
	for i, d := range req.Deliveries {
		parsed, err := files.ParseDelivery(d.Customer, string(d.Latitude), string(d.Longitude), d.Priority, string(d.WeightKg))
		if err != nil {
			in.Rejected = append(in.Rejected, dto.RejectedResponse{Row: i + 1, Cause: err.Error(), Customer: d.Customer})
			continue
		}
		in.Deliveries = append(in.Deliveries, parsed)
	}

	return in, nil
}

// parseObjective treats an empty value as the time objective.
func parseObjective(s string) (domain.Objective, error) {
	if strings.TrimSpace(s) == "" {
		return domain.ObjectiveTime, nil
	}
	return domain.ParseObjective(s)
}

var badRequestErrors = []error{
	services.ErrInvalidDepot,
	services.ErrNegativeGamma,
	services.ErrInvalidSteps,
	domain.ErrUnknownMode,
	domain.ErrUnknownObjective,
	domain.ErrNegativeWeight,
	domain.ErrInvalidCoordinates,
}

// writeServiceError maps optimizer errors to HTTP statuses. Unknown errors are
// logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error, rejected []dto.RejectedResponse) {
	if errors.Is(err, services.ErrNoDeliveries) {
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: services.ErrNoDeliveries.Error(), Rejected: rejected})
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
