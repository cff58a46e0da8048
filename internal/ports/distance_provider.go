package ports

import "courier-route-service/internal/domain"

// Contract for computing travel distance between two coordinates.
type DistanceProvider interface {
	// Return the non-negative distance in kilometers from a to b.
	Distance(a, b domain.Coordinates) float64
}
