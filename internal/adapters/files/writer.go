package files

import (
	"courier-route-service/internal/domain"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// ETALayout is the minute-precision timestamp used in route output.
const ETALayout = "2006-01-02T15:04"

var routeHeader = []string{
	"customer", "latitude", "longitude",
	"distance_from_previous", "cumulative_distance", "eta_from_start",
	"time_to_current", "cost_to_current", "co2_to_current",
}

var rejectedHeader = []string{"row", "cause", "customer", "latitude", "longitude", "priority", "weight_kg"}

var paretoHeader = []string{
	"timestamp", "gamma", "w_time", "w_cost", "w_co2",
	"time_h", "cost_NOK", "co2_g", "non_dominated",
}

func WriteRouteCSV(w io.Writer, rows []domain.RouteRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(routeHeader); err != nil {
		return fmt.Errorf("write route header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(routeRecord(r)); err != nil {
			return fmt.Errorf("write route row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func routeRecord(r domain.RouteRow) []string {
	return []string{
		r.Customer,
		strconv.FormatFloat(r.Latitude, 'f', 6, 64),
		strconv.FormatFloat(r.Longitude, 'f', 6, 64),
		formatFloat(r.DistanceFromPrevious),
		formatFloat(r.CumulativeDistance),
		r.ETA.Format(ETALayout),
		strconv.FormatFloat(r.TimeToCurrent, 'f', 2, 64),
		strconv.FormatFloat(r.CostToCurrent, 'f', 2, 64),
		strconv.FormatFloat(r.CO2ToCurrent, 'f', 2, 64),
	}
}

// WriteRejectedCSV writes invalid input rows. Nothing is written for an
// empty list.
func WriteRejectedCSV(w io.Writer, rejected []RejectedRow) error {
	if len(rejected) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(rejectedHeader); err != nil {
		return fmt.Errorf("write rejected header: %w", err)
	}
	for _, r := range rejected {
		rec := []string{strconv.Itoa(r.Row), r.Cause, r.Customer, r.Latitude, r.Longitude, r.Priority, r.WeightKg}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write rejected row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParetoCSV writes one line per sweep candidate, stamped with at.
func WriteParetoCSV(w io.Writer, front *domain.ParetoFront, at time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(paretoHeader); err != nil {
		return fmt.Errorf("write pareto header: %w", err)
	}
	stamp := at.Format(time.RFC3339)
	for _, c := range front.Candidates {
		rec := []string{
			stamp,
			formatFloat(c.Gamma),
			formatFloat(c.Weights.Time),
			formatFloat(c.Weights.Cost),
			formatFloat(c.Weights.CO2),
			formatFloat(c.Performance.Time),
			formatFloat(c.Performance.Cost),
			formatFloat(c.Performance.CO2),
			yesNo(c.NonDominated),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write pareto row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
