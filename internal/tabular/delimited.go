package tabular

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/finaware/statement-analyzer/internal/models"
)

// ParseDelimited parses comma- or tab-separated text. The delimiter is
// chosen by frequency in the first non-empty line.
func ParseDelimited(text string) (*models.ParsedTable, string, error) {
	delim := detectDelimiter(text)
	if delim == 0 {
		return nil, text, ErrNoTable
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed record; keep whatever parsed so far.
			continue
		}
		rows = append(rows, record)
	}

	table, err := buildTable(rows)
	if err != nil {
		return nil, text, err
	}
	return table, "", nil
}

func detectDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		commas := strings.Count(line, ",")
		tabs := strings.Count(line, "\t")
		switch {
		case tabs > 0 && tabs >= commas:
			return '\t'
		case commas > 0:
			return ','
		}
		return 0
	}
	return 0
}
