package narrative

import (
	"testing"

	"github.com/finaware/statement-analyzer/internal/models"
)

func lines(texts ...string) []models.RawLine {
	out := make([]models.RawLine, len(texts))
	for i, s := range texts {
		out[i] = models.RawLine{N: i + 1, Text: s}
	}
	return out
}

func TestExtractSplitsClauses(t *testing.T) {
	txns, _ := Extract(lines("Paid rent 5000 on 2024-01-05, salary credited 30000 on 2024-01-01"))

	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	rent, salary := txns[0], txns[1]
	if rent.Amount.String() != "-5000" {
		t.Errorf("rent amount = %s, want -5000", rent.Amount)
	}
	if rent.Date == nil || rent.Date.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("rent date wrong: %v", rent.Date)
	}
	if salary.Amount.String() != "30000" {
		t.Errorf("salary amount = %s, want 30000", salary.Amount)
	}
	if salary.Date == nil || salary.Date.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("salary date wrong: %v", salary.Date)
	}
}

func TestExtractAmountWithoutDate(t *testing.T) {
	txns, _ := Extract(lines("ATM withdrawal 2000"))

	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Date != nil {
		t.Error("expected null date")
	}
	if txns[0].Amount.String() != "-2000" {
		t.Errorf("amount = %s, want -2000", txns[0].Amount)
	}
}

func TestExtractTrailingBalance(t *testing.T) {
	txns, _ := Extract(lines("2024-01-05 Rent payment 5000 25000"))

	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].BalanceAfter == nil {
		t.Fatal("expected trailing balance")
	}
	if txns[0].BalanceAfter.String() != "25000" {
		t.Errorf("balance = %s, want 25000", txns[0].BalanceAfter)
	}
}

func TestExtractCreditKeywords(t *testing.T) {
	tests := []struct {
		text string
		sign string
	}{
		{"Salary received 30000", "30000"},
		{"Refund credited 450", "450"},
		{"Grocery shopping 1200", "-1200"},
		{"Transfer to landlord 8000", "-8000"},
	}
	for _, tt := range tests {
		txns, _ := Extract(lines(tt.text))
		if len(txns) != 1 {
			t.Fatalf("%q: expected 1 transaction, got %d", tt.text, len(txns))
		}
		if txns[0].Amount.String() != tt.sign {
			t.Errorf("%q: amount = %s, want %s", tt.text, txns[0].Amount, tt.sign)
		}
	}
}

func TestExtractCrShorthandNeedsWordBoundary(t *testing.T) {
	// "crimson" contains "cr" but is not a credit marker.
	txns, _ := Extract(lines("Paid crimson decor 700"))
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if !txns[0].Amount.IsNegative() {
		t.Errorf("amount = %s, want a debit", txns[0].Amount)
	}

	txns, _ = Extract(lines("700 CR against invoice"))
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount.IsNegative() {
		t.Errorf("amount = %s, want a credit", txns[0].Amount)
	}
}

func TestExtractNeverFabricatesNumbers(t *testing.T) {
	txns, candidates := Extract(lines(
		"Dear customer, your statement is ready",
		"Thank you for banking with us",
	))
	if len(txns) != 0 {
		t.Errorf("expected no transactions from prose, got %d", len(txns))
	}
	if candidates != 0 {
		t.Errorf("expected no candidates, got %d", candidates)
	}
}

func TestExtractThousandsSeparatorNotAClauseBoundary(t *testing.T) {
	txns, _ := Extract(lines("Paid supplier 1,234.56 on 2024-02-01"))
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount.String() != "-1234.56" {
		t.Errorf("amount = %s, want -1234.56", txns[0].Amount)
	}
}

func TestExtractSkipsShortFragments(t *testing.T) {
	txns, _ := Extract(lines("5", "ok"))
	if len(txns) != 0 {
		t.Errorf("expected 0 transactions, got %d", len(txns))
	}
}
