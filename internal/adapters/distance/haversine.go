package distance

import (
	"courier-route-service/internal/domain"
	"math"
)

const EarthRadiusKm = 6371.0

// HaversineProvider implements DistanceProvider with great-circle distance.
// It is stateless and safe for concurrent use.
type HaversineProvider struct{}

func NewHaversineProvider() HaversineProvider { return HaversineProvider{} }

func (HaversineProvider) Distance(a, b domain.Coordinates) float64 {
	return Haversine(a, b)
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}
