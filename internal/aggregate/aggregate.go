// Package aggregate reduces a normalized transaction sequence into the
// summary metrics consumed by the risk engine. Every estimator degrades
// rather than divides by zero; the result fields are always finite and
// non-negative.
package aggregate

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/finaware/statement-analyzer/internal/models"
)

// Summarize computes the three summary metrics. An empty sequence yields
// zeros.
func Summarize(txns []models.Transaction) models.StatementSummary {
	if len(txns) == 0 {
		return models.StatementSummary{}
	}
	return models.StatementSummary{
		MonthlyIncomeEstimate:  monthlyEstimate(txns, false),
		MonthlyExpenseEstimate: monthlyEstimate(txns, true),
		AvgMonthlyBalance:      averageBalance(txns),
	}
}

// monthlyEstimate averages per-month totals of one flow direction.
// Undated transactions form their own bucket so their signal is kept.
// When no transaction has a date at all, the total is divided by the
// number of distinct description clusters as a proxy for months.
func monthlyEstimate(txns []models.Transaction, expenses bool) float64 {
	buckets := map[string]decimal.Decimal{}
	clusters := map[string]struct{}{}
	total := decimal.Zero
	anyDated := false
	matched := 0

	for _, txn := range txns {
		amount := txn.Amount
		if expenses {
			amount = amount.Neg()
		}
		if !amount.IsPositive() {
			continue
		}
		matched++
		total = total.Add(amount)
		clusters[clusterKey(txn.Description)] = struct{}{}

		key := ""
		if txn.Date != nil {
			key = txn.Date.Format("2006-01")
			anyDated = true
		}
		buckets[key] = buckets[key].Add(amount)
	}
	if matched == 0 {
		return 0
	}

	if anyDated {
		sum := decimal.Zero
		for _, v := range buckets {
			sum = sum.Add(v)
		}
		return round2(sum.Div(decimal.NewFromInt(int64(len(buckets)))))
	}

	n := len(clusters)
	if n < 1 {
		n = 1
	}
	return round2(total.Div(decimal.NewFromInt(int64(n))))
}

// averageBalance is the mean of observed running balances; without any,
// it falls back to the running cumulative sum of amounts from a zero
// starting balance, averaged across transactions, floored at zero.
func averageBalance(txns []models.Transaction) float64 {
	sum := decimal.Zero
	observed := 0
	for _, txn := range txns {
		if txn.BalanceAfter != nil {
			sum = sum.Add(*txn.BalanceAfter)
			observed++
		}
	}
	if observed > 0 {
		return clampNonNegative(round2(sum.Div(decimal.NewFromInt(int64(observed)))))
	}

	running := decimal.Zero
	cumulative := decimal.Zero
	for _, txn := range txns {
		running = running.Add(txn.Amount)
		cumulative = cumulative.Add(running)
	}
	return clampNonNegative(round2(cumulative.Div(decimal.NewFromInt(int64(len(txns))))))
}

// clusterKey buckets descriptions by their first alphabetic token, a
// cheap deterministic proxy for "distinct counterparties".
func clusterKey(desc string) string {
	for _, field := range strings.Fields(strings.ToLower(desc)) {
		cleaned := strings.TrimFunc(field, func(r rune) bool { return !unicode.IsLetter(r) })
		if cleaned != "" {
			return cleaned
		}
	}
	return ""
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func clampNonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
