package tabular

import (
	"bytes"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/finaware/statement-analyzer/internal/models"
)

// parseSpreadsheet reads the first sheet of an xlsx or legacy xls
// workbook. The first non-empty row becomes the header.
func parseSpreadsheet(data []byte) (*models.ParsedTable, string, error) {
	if rows, ok := readXLSX(data); ok {
		return spreadsheetTable(padRows(rows))
	}
	if rows, ok := readXLS(data); ok {
		return spreadsheetTable(padRows(rows))
	}
	return nil, "", ErrNoTable
}

// padRows lifts every row to the widest row's cell count. Workbook
// readers trim trailing empty cells, so a row with a blank last column
// arrives short and must not be mistaken for a malformed row.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}

func spreadsheetTable(rows [][]string) (*models.ParsedTable, string, error) {
	table, err := buildTable(rows)
	if err != nil {
		return nil, flattenRows(rows), err
	}
	return table, "", nil
}

func readXLSX(data []byte) (rows [][]string, ok bool) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, false
	}
	rows, err = f.GetRows(sheet)
	if err != nil {
		return nil, false
	}
	return rows, true
}

func readXLS(data []byte) (rows [][]string, ok bool) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil || wb.NumSheets() == 0 {
		return nil, false
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, false
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, true
}
