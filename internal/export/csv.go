// Package export renders normalized transactions as CSV for audit and
// display use.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/finaware/statement-analyzer/internal/models"
)

// CSVWriter writes an analysis result in CSV format.
type CSVWriter struct {
	IncludeMetadata bool
}

// Write emits optional metadata comment rows, a header, and one row per
// transaction. Null dates and balances become empty cells.
func (w *CSVWriter) Write(out io.Writer, res *models.AnalysisResult) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeMetadata {
		writer.Write([]string{"# Format", string(res.Format)})
		writer.Write([]string{"# Path", string(res.Path)})
		writer.Write([]string{"# Quality", res.Quality})
		writer.Write([]string{"# Confidence", strconv.FormatFloat(res.Confidence, 'f', 2, 64)})
	}

	if err := writer.Write([]string{"Date", "Description", "Amount", "Balance"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, txn := range res.Transactions {
		date := ""
		if txn.Date != nil {
			date = txn.Date.Format("2006-01-02")
		}
		balance := ""
		if txn.BalanceAfter != nil {
			balance = txn.BalanceAfter.StringFixed(2)
		}
		row := []string{date, txn.Description, txn.Amount.StringFixed(2), balance}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}
