package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCoordinates = errors.New("coordinates out of range")

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Validate reports whether the coordinates lie within [-90,90] x [-180,180].
// NaN fails every comparison and is rejected.
func (c Coordinates) Validate() error {
	if !(c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180) {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, c.Lat, c.Lon)
	}
	return nil
}
