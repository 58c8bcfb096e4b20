// Package normalize converts classified table rows into canonical
// transactions with a signed amount.
package normalize

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finaware/statement-analyzer/internal/classify"
	"github.com/finaware/statement-analyzer/internal/fields"
	"github.com/finaware/statement-analyzer/internal/models"
)

var creditTypeWords = []string{"cr", "credit", "deposit", "salary", "refund"}
var debitTypeWords = []string{"dr", "debit", "withdrawal", "payment", "purchase"}

// Rows converts every table row into a Transaction. Rows are skipped only
// when they carry no amount and no balance, or when both debit and credit
// are populated (inconsistent, never summed). Dates that fail to parse
// yield a null date rather than a dropped row.
func Rows(t *models.ParsedTable, c *classify.Classification, log *slog.Logger) (txns []models.Transaction, skipped int) {
	for _, row := range t.Rows {
		txn, ok := fromRow(row, c, log)
		if !ok {
			skipped++
			continue
		}
		txns = append(txns, txn)
	}
	return txns, skipped
}

func fromRow(row []string, c *classify.Classification, log *slog.Logger) (models.Transaction, bool) {
	txn := models.Transaction{}

	if c.Narration != -1 {
		txn.Description = strings.TrimSpace(row[c.Narration])
	}
	if c.Date != -1 {
		txn.Date = fields.ParseDate(row[c.Date])
	}
	if c.Balance != -1 {
		if b, ok := fields.ParseAmount(row[c.Balance]); ok {
			txn.BalanceAfter = &b
		}
	}

	amount, ok := amountFromRow(row, c, log)
	if !ok {
		// Keep balance-only rows: a balance movement with no amount is
		// still a statement event the aggregator can use.
		if txn.BalanceAfter == nil {
			return models.Transaction{}, false
		}
		amount = decimal.Zero
	}
	txn.Amount = amount
	return txn, true
}

func amountFromRow(row []string, c *classify.Classification, log *slog.Logger) (decimal.Decimal, bool) {
	if c.Amount != -1 {
		return signedAmount(row, c, log)
	}
	return pairAmount(row, c, log)
}

// signedAmount handles the amount_signed form. An explicit sign in the
// cell always wins; the type column only validates direction, and a
// mismatch is logged, not fatal. Unsigned cells take their direction from
// the type column when one exists.
func signedAmount(row []string, c *classify.Classification, log *slog.Logger) (decimal.Decimal, bool) {
	cell := row[c.Amount]
	amount, ok := fields.ParseAmount(cell)
	if !ok {
		return decimal.Zero, false
	}

	var typed direction
	if c.Type != -1 {
		typed = typeDirection(row[c.Type])
	}

	if fields.HasExplicitSign(cell) {
		if typed == dirCredit && amount.IsNegative() || typed == dirDebit && amount.IsPositive() {
			log.Warn("type column disagrees with signed amount; signed amount wins",
				"amount", amount.String(), "type", row[c.Type])
		}
		return amount, true
	}
	if typed == dirDebit {
		return amount.Abs().Neg(), true
	}
	return amount, true
}

// pairAmount handles the debit/credit form: amount is -debit when debit
// is populated, else +credit. A row with both populated is inconsistent
// and rejected, never summed. A lone debit or credit column works the
// same way with the missing side treated as always empty.
func pairAmount(row []string, c *classify.Classification, log *slog.Logger) (decimal.Decimal, bool) {
	var debit, credit decimal.Decimal
	var hasDebit, hasCredit bool

	if c.Debit != -1 {
		if d, ok := fields.ParseAmount(row[c.Debit]); ok && !d.IsZero() {
			debit, hasDebit = d.Abs(), true
		}
	}
	if c.Credit != -1 {
		if d, ok := fields.ParseAmount(row[c.Credit]); ok && !d.IsZero() {
			credit, hasCredit = d.Abs(), true
		}
	}

	switch {
	case hasDebit && hasCredit:
		log.Warn("row has both debit and credit populated; skipping",
			"debit", debit.String(), "credit", credit.String())
		return decimal.Zero, false
	case hasDebit:
		return debit.Neg(), true
	case hasCredit:
		return credit, true
	}
	return decimal.Zero, false
}

type direction int

const (
	dirUnknown direction = iota
	dirDebit
	dirCredit
)

func typeDirection(cell string) direction {
	lower := strings.ToLower(strings.TrimSpace(cell))
	if lower == "" {
		return dirUnknown
	}
	for _, w := range creditTypeWords {
		if strings.Contains(lower, w) {
			return dirCredit
		}
	}
	for _, w := range debitTypeWords {
		if strings.Contains(lower, w) {
			return dirDebit
		}
	}
	return dirUnknown
}
