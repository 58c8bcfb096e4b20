// Package tabular holds the structural parsers. Each parser implements the
// same contract: produce a ParsedTable, or fail with ErrNoTable alongside
// whatever text could be salvaged for the narrative path.
package tabular

import (
	"errors"
	"regexp"
	"strings"

	"github.com/finaware/statement-analyzer/internal/extractor"
	"github.com/finaware/statement-analyzer/internal/models"
)

// ErrNoTable signals that the document held no usable table. The caller
// falls back to narrative extraction over the salvaged text.
var ErrNoTable = errors.New("no usable table")

// Parse dispatches to the structural parser for format. The returned
// salvage string is only meaningful when err is ErrNoTable.
func Parse(doc models.RawDocument, format models.Format) (table *models.ParsedTable, salvage string, err error) {
	switch format {
	case models.FormatCSV:
		return ParseDelimited(extractor.DecodeText(doc.Data))
	case models.FormatTSV:
		return ParseDelimited(extractor.DecodeText(doc.Data))
	case models.FormatSpreadsheet:
		return parseSpreadsheet(doc.Data)
	case models.FormatJSON:
		return parseJSON(doc.Data)
	case models.FormatXML:
		return parseXML(doc.Data)
	}
	return nil, extractor.DecodeText(doc.Data), ErrNoTable
}

var numericCell = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)

// isNumericCell reports whether a trimmed cell is purely numeric.
func isNumericCell(s string) bool {
	return numericCell.MatchString(strings.TrimSpace(s))
}

// buildTable assembles a ParsedTable from raw rows. The first row becomes
// the header when it contains no purely numeric cell; otherwise columns
// are positional and the first row is data. Rows whose cell count differs
// from the header are dropped and counted.
func buildTable(rows [][]string) (*models.ParsedTable, error) {
	cleaned := make([][]string, 0, len(rows))
	for _, row := range rows {
		empty := true
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
			if row[i] != "" {
				empty = false
			}
		}
		if !empty {
			cleaned = append(cleaned, row)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoTable
	}

	first := cleaned[0]
	hasHeader := true
	for _, cell := range first {
		if cell != "" && isNumericCell(cell) {
			hasHeader = false
			break
		}
	}

	t := &models.ParsedTable{HasHeader: hasHeader}
	if hasHeader {
		t.Header = first
		cleaned = cleaned[1:]
	} else {
		t.Header = make([]string, len(first))
	}

	for _, row := range cleaned {
		if len(row) != len(t.Header) {
			t.Dropped++
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, ErrNoTable
	}
	return t, nil
}

// Flatten renders a table back into lines of cell values, used as salvage
// text when classification rejects the table.
func Flatten(t *models.ParsedTable) string {
	var b strings.Builder
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func flattenRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
