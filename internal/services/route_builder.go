package services

import (
	"courier-route-service/internal/domain"
	"math"
	"time"
)

// RouteBuilder replays an order as display rows: the depot, one row per
// delivery and the depot again. ETAs are start plus the cumulative travel
// time; leg metrics are rounded to 2 decimals and coordinates to 6.
func (o *RouteOptimizer) RouteBuilder(order []int, start time.Time) []domain.RouteRow {
	rows := make([]domain.RouteRow, 0, len(order)+2)

	var cumDistance, cumHours float64
	addStop := func(name string, c domain.Coordinates, l leg) {
		cumDistance += l.Distance
		cumHours += l.Hours

		rows = append(rows, domain.RouteRow{
			Customer:             name,
			Latitude:             round(c.Lat, 6),
			Longitude:            round(c.Lon, 6),
			DistanceFromPrevious: l.Distance,
			CumulativeDistance:   cumDistance,
			ETA:                  start.Add(hoursToDuration(cumHours)),
			TimeToCurrent:        round(l.Hours, 2),
			CostToCurrent:        round(l.Cost, 2),
			CO2ToCurrent:         round(l.CO2, 2),
		})
	}

	addStop(o.depot.Name, o.depot.Coordinates, leg{Dest: -1})

	o.walk(order, func(l leg) {
		if l.Dest < 0 {
			addStop(o.depot.Name, o.depot.Coordinates, l)
			return
		}
		d := o.deliveries[l.Dest]
		addStop(d.Customer, d.Coordinates, l)
	})

	return rows
}

// Summarize totals the rows of a built route.
func Summarize(rows []domain.RouteRow) domain.RouteSummary {
	s := domain.RouteSummary{Stops: len(rows)}
	for _, r := range rows {
		s.DistanceKm += r.DistanceFromPrevious
		s.Hours += r.TimeToCurrent
		s.CostNOK += r.CostToCurrent
		s.CO2g += r.CO2ToCurrent
	}
	return s
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
