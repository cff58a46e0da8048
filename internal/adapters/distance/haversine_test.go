package distance

import (
	"courier-route-service/internal/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineKnownValue(t *testing.T) {
	// One degree of longitude on the equator is R * pi / 180.
	want := EarthRadiusKm * math.Pi / 180
	got := Haversine(domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 1})
	require.InDelta(t, want, got, 1e-9)
	require.InDelta(t, 111.19492664455873, got, 1e-9)
}

func TestHaversineSymmetricAndZero(t *testing.T) {
	oslo := domain.Coordinates{Lat: 59.9139, Lon: 10.7522}
	bergen := domain.Coordinates{Lat: 60.3913, Lon: 5.3221}

	require.Equal(t, 0.0, Haversine(oslo, oslo))
	require.Equal(t, Haversine(oslo, bergen), Haversine(bergen, oslo))
	require.InDelta(t, 305, Haversine(oslo, bergen), 5)
}

func TestMockDistanceProvider(t *testing.T) {
	a := domain.Coordinates{Lat: 1, Lon: 1}
	b := domain.Coordinates{Lat: 2, Lon: 2}
	c := domain.Coordinates{Lat: 3, Lon: 3}

	p := NewMockDistanceProvider([]MockPair{{From: a, To: b, Km: 7}})
	require.Equal(t, 7.0, p.Distance(a, b))
	require.Equal(t, 7.0, p.Distance(b, a))
	require.Equal(t, 0.0, p.Distance(c, c))
	require.InDelta(t, Haversine(a, c), p.Distance(a, c), 1e-12)
}
