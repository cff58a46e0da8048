package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TransportMode selects the courier's vehicle.
type TransportMode uint8

const (
	ModeCar TransportMode = iota + 1
	ModeBicycle
	ModeWalk
)

var ErrUnknownMode = errors.New("unknown transport mode (want car/bicycle/walk)")

// Speed, cost and emission rates for a transport mode.
type ModeProfile struct {
	SpeedKmh  float64 // km/h
	CostPerKm float64 // NOK/km
	CO2PerKm  float64 // g/km
}

var modeProfiles = map[TransportMode]ModeProfile{
	ModeCar:     {SpeedKmh: 50, CostPerKm: 4, CO2PerKm: 120},
	ModeBicycle: {SpeedKmh: 15, CostPerKm: 0, CO2PerKm: 0},
	ModeWalk:    {SpeedKmh: 5, CostPerKm: 0, CO2PerKm: 0},
}

func ParseTransportMode(s string) (TransportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "car":
		return ModeCar, nil
	case "bicycle":
		return ModeBicycle, nil
	case "walk":
		return ModeWalk, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m TransportMode) String() string {
	switch m {
	case ModeCar:
		return "car"
	case ModeBicycle:
		return "bicycle"
	case ModeWalk:
		return "walk"
	}
	return fmt.Sprintf("TransportMode(%d)", uint8(m))
}

// Profile returns the rates for the mode and false for an unknown mode.
func (m TransportMode) Profile() (ModeProfile, bool) {
	p, ok := modeProfiles[m]
	return p, ok
}

// Leg converts a distance in km into travel time (h), cost (NOK) and CO2 (g).
func (p ModeProfile) Leg(distanceKm float64) (hours, cost, co2 float64) {
	return distanceKm / p.SpeedKmh, distanceKm * p.CostPerKm, distanceKm * p.CO2PerKm
}
