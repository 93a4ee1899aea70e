package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/backend-bar/internal/report"
)

const sheetName = "Report"

// WriteReport renders the sales report as an xlsx workbook: a header row,
// one row per drink, and a trailing Total row. Monetary values are rounded
// to two decimals here, at presentation time only.
func WriteReport(w io.Writer, rep report.Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := []any{"Name", "Quantity", "Avg Price", "Revenue"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := 2
	for _, row := range rep.Rows {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		values := []any{row.Name, row.Quantity, round2(row.AvgPrice), round2(row.Revenue)}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", line, err)
		}
		line++
	}

	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	total := []any{"Total", rep.TotalQuantity, "", round2(rep.TotalRevenue)}
	if err := f.SetSheetRow(sheetName, cell, &total); err != nil {
		return fmt.Errorf("write total row: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
