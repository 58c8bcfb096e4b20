package advisor

import (
	"math"
	"strings"
)

// ForecastRequest carries a monthly expense history, oldest first.
type ForecastRequest struct {
	MonthlyExpenseHistory []float64 `json:"monthly_expense_history"`
}

// ConfidenceBand brackets a forecast by one standard deviation.
type ConfidenceBand struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ForecastResponse is the next-month expense prediction.
type ForecastResponse struct {
	NextMonthPrediction float64        `json:"next_month_prediction"`
	ConfidenceBand      ConfidenceBand `json:"confidence_band"`
	Trend               string         `json:"trend"`
}

// LabeledExpense pairs a free-text description with an amount.
type LabeledExpense struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// CategorizeRequest is a batch of expenses to bucket.
type CategorizeRequest struct {
	Transactions []LabeledExpense `json:"transactions"`
}

// CategorizeResponse maps category names to summed amounts.
type CategorizeResponse struct {
	CategorizedExpenses map[string]float64 `json:"categorized_expenses"`
	UncategorizedCount  int                `json:"uncategorized_count"`
}

// expenseCategories is ordered; the first matching category wins.
var expenseCategories = []struct {
	name     string
	keywords []string
}{
	{"food", []string{"food", "grocery", "restaurant", "swiggy", "zomato"}},
	{"transport", []string{"fuel", "petrol", "metro", "uber", "ola", "transport"}},
	{"utilities", []string{"electricity", "water", "gas", "internet", "mobile", "bill"}},
	{"rent", []string{"rent", "house", "landlord"}},
	{"health", []string{"hospital", "medical", "pharmacy", "medicine"}},
	{"education", []string{"school", "college", "tuition", "course"}},
	{"business", []string{"inventory", "supplier", "shop", "wholesale"}},
}

// ForecastNextMonth predicts next month's spend as a recency-weighted
// average nudged by half the linear trend slope, banded by one standard
// deviation.
func ForecastNextMonth(req ForecastRequest) ForecastResponse {
	history := req.MonthlyExpenseHistory

	var weightedSum, weightTotal float64
	for i, v := range history {
		w := float64(i + 1)
		weightedSum += v * w
		weightTotal += w
	}
	weightedAvg := weightedSum / weightTotal

	slope := 0.0
	if len(history) >= 3 {
		slope = linearSlope(history)
	}
	prediction := math.Max(weightedAvg+slope*0.5, 0)

	stdDev := standardDeviation(history)
	trend := "stable"
	if slope > 150 {
		trend = "rising"
	} else if slope < -150 {
		trend = "falling"
	}

	return ForecastResponse{
		NextMonthPrediction: round2(prediction),
		ConfidenceBand: ConfidenceBand{
			Lower: round2(math.Max(prediction-stdDev, 0)),
			Upper: round2(prediction + stdDev),
		},
		Trend: trend,
	}
}

// linearSlope is the least-squares slope of values over indices 0..n-1.
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// standardDeviation is the population standard deviation.
func standardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// CategorizeExpenses buckets expenses by keyword match, summing amounts
// per category. Categories with zero total are omitted.
func CategorizeExpenses(req CategorizeRequest) CategorizeResponse {
	totals := map[string]float64{}
	uncategorized := 0

	for _, tx := range req.Transactions {
		description := strings.ToLower(tx.Description)
		assigned := false
		for _, category := range expenseCategories {
			for _, kw := range category.keywords {
				if strings.Contains(description, kw) {
					totals[category.name] += tx.Amount
					assigned = true
					break
				}
			}
			if assigned {
				break
			}
		}
		if !assigned {
			uncategorized++
		}
	}

	rounded := make(map[string]float64, len(totals))
	for name, total := range totals {
		if total > 0 {
			rounded[name] = round2(total)
		}
	}
	return CategorizeResponse{
		CategorizedExpenses: rounded,
		UncategorizedCount:  uncategorized,
	}
}
