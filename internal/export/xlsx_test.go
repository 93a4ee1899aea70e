package export_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/backend-bar/internal/export"
	"github.com/noah-isme/backend-bar/internal/repo"
	"github.com/noah-isme/backend-bar/internal/report"
)

func TestWriteReport(t *testing.T) {
	rep := report.Report{
		Rows: []repo.DrinkSummary{
			{Name: "Beer", Quantity: 3, AvgPrice: 101.33333333, Revenue: 304},
			{Name: "Wine", Quantity: 1, AvgPrice: 196, Revenue: 196},
		},
		TotalQuantity: 4,
		TotalRevenue:  500,
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, rep); err != nil {
		t.Fatalf("write report: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Report")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 2 drinks + total, got %d rows", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][3] != "Revenue" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Beer" || rows[1][1] != "3" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[1][2] != "101.33" {
		t.Fatalf("expected avg price rounded to two decimals, got %q", rows[1][2])
	}
	if rows[3][0] != "Total" || rows[3][3] != "500" {
		t.Fatalf("unexpected total row: %v", rows[3])
	}
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteReport(&buf, report.Report{Rows: nil}); err != nil {
		t.Fatalf("write empty report: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Report")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + total, got %d rows", len(rows))
	}
	if rows[1][0] != "Total" {
		t.Fatalf("unexpected trailing row: %v", rows[1])
	}
}
