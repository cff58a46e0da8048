package files

import (
	"courier-route-service/internal/domain"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	RouteSheet  = "Route"
	ParetoSheet = "Pareto"
)

// WriteWorkbook renders the route rows and, when front is non-nil, the sweep
// candidates as an XLSX workbook.
func WriteWorkbook(w io.Writer, rows []domain.RouteRow, front *domain.ParetoFront, at time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RouteSheet); err != nil {
		return fmt.Errorf("workbook: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("workbook: header style: %w", err)
	}

	routeRows := make([][]any, 0, len(rows))
	for _, r := range rows {
		routeRows = append(routeRows, []any{
			r.Customer,
			r.Latitude,
			r.Longitude,
			r.DistanceFromPrevious,
			r.CumulativeDistance,
			r.ETA.Format(ETALayout),
			r.TimeToCurrent,
			r.CostToCurrent,
			r.CO2ToCurrent,
		})
	}
	if err := writeSheet(f, RouteSheet, routeHeader, routeRows, headerStyle); err != nil {
		return err
	}

	if front != nil {
		if _, err := f.NewSheet(ParetoSheet); err != nil {
			return fmt.Errorf("workbook: new sheet: %w", err)
		}

		stamp := at.Format(time.RFC3339)
		paretoRows := make([][]any, 0, len(front.Candidates))
		for _, c := range front.Candidates {
			paretoRows = append(paretoRows, []any{
				stamp,
				c.Gamma,
				c.Weights.Time,
				c.Weights.Cost,
				c.Weights.CO2,
				c.Performance.Time,
				c.Performance.Cost,
				c.Performance.CO2,
				yesNo(c.NonDominated),
			})
		}
		if err := writeSheet(f, ParetoSheet, paretoHeader, paretoRows, headerStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("workbook: write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("workbook %s: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("workbook %s: header: %w", sheet, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("workbook %s: header style: %w", sheet, err)
	}

	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("workbook %s: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("workbook %s: row %d: %w", sheet, r+2, err)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("workbook %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return fmt.Errorf("workbook %s: col width: %w", sheet, err)
	}
	return nil
}
