package tabular

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/finaware/statement-analyzer/internal/models"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseSpreadsheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Date", "Description", "Amount", "Balance"},
		{"2024-01-01", "Salary", 30000, 55000},
		{"2024-01-05", "Rent", -5000, 50000},
	})

	table, _, err := Parse(models.RawDocument{Filename: "stmt.xlsx", Data: data}, models.FormatSpreadsheet)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Width() != 4 {
		t.Errorf("expected 4 columns, got %d", table.Width())
	}
	if len(table.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestParseSpreadsheetBlankTrailingCellKeepsRow(t *testing.T) {
	// Workbook readers trim trailing empty cells, so the Rent row with a
	// blank Balance comes back one cell short of the header.
	data := buildWorkbook(t, [][]interface{}{
		{"Date", "Narration", "Debit", "Credit", "Balance"},
		{"2024-01-01", "Salary", "", 30000, 55000},
		{"2024-01-05", "Rent", 5000, "", ""},
	})

	table, _, err := Parse(models.RawDocument{Filename: "stmt.xlsx", Data: data}, models.FormatSpreadsheet)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", table.Dropped)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected both rows kept, got %d", len(table.Rows))
	}
	if table.Rows[1][1] != "Rent" {
		t.Errorf("row 2 = %v, want the Rent row", table.Rows[1])
	}
	if table.Rows[1][4] != "" {
		t.Errorf("blank balance cell = %q, want empty", table.Rows[1][4])
	}
}

func TestPadRows(t *testing.T) {
	rows := padRows([][]string{
		{"a", "b", "c"},
		{"d"},
		{},
	})
	for i, row := range rows {
		if len(row) != 3 {
			t.Errorf("row %d width = %d, want 3", i, len(row))
		}
	}
}
