package ports

import (
	"context"
	"courier-route-service/internal/domain"
)

// Port: a boundary for retrieving Delivery entities from a data source.
type DeliveryRepository interface {
	// Retrieve all deliveries available for routing, in stable order.
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
}
