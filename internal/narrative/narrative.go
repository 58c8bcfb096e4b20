// Package narrative is the fallback transaction extractor for documents
// where no usable table exists. It scans ordered lines for date/amount
// co-occurrence and emits best-effort transactions: permissive about
// structure, strict about never fabricating numeric values.
package narrative

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finaware/statement-analyzer/internal/fields"
	"github.com/finaware/statement-analyzer/internal/models"
)

// minLineLen filters fragments too short to describe a transaction.
const minLineLen = 5

var creditWords = []string{"credit", "credited", "cr", "salary", "deposit", "refund", "received"}

// Segments split on clause boundaries so one line can describe several
// transactions. A comma only splits when followed by whitespace, which
// keeps thousands separators intact.
var clauseSplit = regexp.MustCompile(`[;,]\s+`)

// Extract scans lines in order and returns the recovered transactions
// along with the number of candidate clauses that carried an amount-shaped
// token (used for confidence scoring).
func Extract(lines []models.RawLine) (txns []models.Transaction, candidates int) {
	for _, line := range lines {
		if len(line.Text) < minLineLen {
			continue
		}
		for _, clause := range clauseSplit.Split(line.Text, -1) {
			if txn, ok := fromClause(clause); ok {
				candidates++
				txns = append(txns, txn)
			}
		}
	}
	return txns, candidates
}

func fromClause(clause string) (models.Transaction, bool) {
	clause = strings.TrimSpace(clause)
	if len(clause) < minLineLen {
		return models.Transaction{}, false
	}

	rest := clause
	dateToken := fields.FindDate(rest)
	if dateToken != "" {
		rest = strings.Replace(rest, dateToken, " ", 1)
	}

	tokens := fields.FindAmounts(rest)
	var amounts []decimal.Decimal
	for _, tok := range tokens {
		if d, ok := fields.ParseAmount(tok); ok {
			amounts = append(amounts, d)
		}
	}
	if len(amounts) == 0 {
		return models.Transaction{}, false
	}

	amount := amounts[0].Abs()
	if isDebitClause(clause) {
		amount = amount.Neg()
	}

	// A trailing second figure on statement lines is conventionally the
	// running balance after the transaction.
	var balance *decimal.Decimal
	if len(amounts) >= 2 {
		b := amounts[len(amounts)-1].Abs()
		balance = &b
	}

	txn := models.Transaction{
		Amount:       amount,
		BalanceAfter: balance,
		Description:  describeClause(rest, tokens),
	}
	if dateToken != "" {
		txn.Date = fields.ParseDate(dateToken)
	}
	return txn, true
}

// isDebitClause decides sign from keywords; unknown direction defaults to
// debit, matching how most statement narrations describe outflows.
func isDebitClause(clause string) bool {
	lower := strings.ToLower(clause)
	for _, w := range creditWords {
		if containsWord(lower, w) {
			return false
		}
	}
	return true
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		leftOK := start == 0 || !isWordChar(text[start-1])
		rightOK := end == len(text) || !isWordChar(text[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// describeClause is the clause with the recognized tokens removed.
func describeClause(rest string, amountTokens []string) string {
	for _, tok := range amountTokens {
		rest = strings.Replace(rest, tok, " ", 1)
	}
	rest = strings.Trim(strings.Join(strings.Fields(rest), " "), " .,:-")
	return rest
}
