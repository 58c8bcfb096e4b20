package advisor

import (
	"math"
	"strings"
	"testing"
)

func TestAssessRiskLowRiskProfile(t *testing.T) {
	cibil := 800
	res := AssessRisk(RiskRequest{
		Age:             35,
		Occupation:      "government teacher",
		MonthlyIncome:   90000,
		MonthlyExpenses: 30000,
		ExistingEMIs:    5000,
		CurrentSavings:  600000,
		LoanAmount:      300000,
		Purpose:         "home renovation",
		CIBILScore:      &cibil,
	})

	if res.RiskCategory != "Low" {
		t.Errorf("category = %q, want Low", res.RiskCategory)
	}
	if res.CIBILEstimated {
		t.Error("score was provided, not estimated")
	}
	if res.CIBILScoreUsed != 800 {
		t.Errorf("cibil used = %d, want 800", res.CIBILScoreUsed)
	}
	if res.RecommendedLoanType != "Home Loan" {
		t.Errorf("loan type = %q, want Home Loan", res.RecommendedLoanType)
	}
	if math.Abs(res.DefaultProbability+res.ApprovalProbability-100) > 0.01 {
		t.Errorf("probabilities do not sum to 100: %v + %v",
			res.DefaultProbability, res.ApprovalProbability)
	}
	if res.EstimatedMonthlyEMI <= 0 {
		t.Errorf("emi = %v, want positive", res.EstimatedMonthlyEMI)
	}
}

func TestAssessRiskHighPressureProfile(t *testing.T) {
	res := AssessRisk(RiskRequest{
		Age:             21,
		Occupation:      "daily wage",
		MonthlyIncome:   12000,
		MonthlyExpenses: 11000,
		ExistingEMIs:    6000,
		CurrentSavings:  0,
		LoanAmount:      500000,
		Purpose:         "personal",
	})

	if res.RiskCategory == "Low" {
		t.Errorf("category = %q, want elevated risk", res.RiskCategory)
	}
	if !res.CIBILEstimated {
		t.Error("expected estimated CIBIL when none provided")
	}
	if res.CIBILScoreUsed < 520 || res.CIBILScoreUsed > 790 {
		t.Errorf("estimated cibil %d outside model bounds", res.CIBILScoreUsed)
	}
	if res.DefaultProbability <= 30 {
		t.Errorf("default probability %v too low for this profile", res.DefaultProbability)
	}
}

func TestAssessRiskPurposeMapping(t *testing.T) {
	tests := []struct {
		purpose string
		want    string
	}{
		{"buying a house", "Home Loan"},
		{"college course fees", "Education Loan"},
		{"shop inventory", "Business Loan"},
		{"new car", "Vehicle Loan"},
		{"hospital bills", "Medical Personal Loan"},
		{"wedding", "Personal Loan"},
	}
	for _, tt := range tests {
		res := AssessRisk(RiskRequest{
			Age: 30, Occupation: "salaried", MonthlyIncome: 50000,
			MonthlyExpenses: 20000, LoanAmount: 200000, Purpose: tt.purpose,
		})
		if res.RecommendedLoanType != tt.want {
			t.Errorf("purpose %q -> %q, want %q", tt.purpose, res.RecommendedLoanType, tt.want)
		}
	}
}

func TestEMIFormula(t *testing.T) {
	// 100000 at 12% over 12 months is about 8884.88.
	got := emi(100000, 12, 12)
	if math.Abs(got-8884.88) > 0.01 {
		t.Errorf("emi = %v, want ~8884.88", got)
	}
	// Zero rate degrades to straight division.
	if got := emi(12000, 0, 12); got != 1000 {
		t.Errorf("zero-rate emi = %v, want 1000", got)
	}
}

func TestPlanGoal(t *testing.T) {
	res := PlanGoal(GoalPlanRequest{
		GoalName:          "bike",
		TargetPrice:       120000,
		CurrentSaved:      60000,
		TimeHorizonMonths: 12,
		MonthlyIncome:     40000,
		MonthlyExpenses:   30000,
	})

	if res.MonthlySavingTarget != 5000 {
		t.Errorf("saving target = %v, want 5000", res.MonthlySavingTarget)
	}
	if res.CurrentProgressPct != 50 {
		t.Errorf("progress = %v, want 50", res.CurrentProgressPct)
	}
	if res.ProjectedCompletionMonths != 6 {
		t.Errorf("projected = %v, want 6", res.ProjectedCompletionMonths)
	}
	// Base 60/20/20 of 40000 with no extra required: target < base savings.
	if res.AdjustedBudgetPlan.SavingsGoal != 8000 {
		t.Errorf("savings goal = %v, want 8000", res.AdjustedBudgetPlan.SavingsGoal)
	}
	if len(res.Notes) == 0 {
		t.Error("expected notes")
	}
}

func TestPlanGoalShortfallAdjustsBudget(t *testing.T) {
	res := PlanGoal(GoalPlanRequest{
		GoalName:          "house deposit",
		TargetPrice:       600000,
		TimeHorizonMonths: 12,
		MonthlyIncome:     50000,
		MonthlyExpenses:   48000,
	})

	// Monthly target 50000 vs base savings 10000: extra 40000 is absorbed
	// 35% from needs, 65% from wants (floored at zero).
	if res.AdjustedBudgetPlan.SavingsGoal != 50000 {
		t.Errorf("savings goal = %v, want 50000", res.AdjustedBudgetPlan.SavingsGoal)
	}
	if res.AdjustedBudgetPlan.Needs != 16000 {
		t.Errorf("needs = %v, want 16000", res.AdjustedBudgetPlan.Needs)
	}
	if res.AdjustedBudgetPlan.Wants != 0 {
		t.Errorf("wants = %v, want 0", res.AdjustedBudgetPlan.Wants)
	}
}

func TestEstimateTaxSlabs(t *testing.T) {
	res := EstimateTax(TaxRequest{SalaryIncome: 1200000, Investments80C: 200000, Insurance80D: 30000})

	if res.DeductionsApplied["80C"] != 150000 {
		t.Errorf("80C = %v, want capped 150000", res.DeductionsApplied["80C"])
	}
	if res.DeductionsApplied["80D"] != 25000 {
		t.Errorf("80D = %v, want capped 25000", res.DeductionsApplied["80D"])
	}
	if res.TaxableIncome != 1025000 {
		t.Errorf("taxable = %v, want 1025000", res.TaxableIncome)
	}
	// 0 + 12500 + 100000 + 7500 = 120000, plus 4% cess = 124800.
	if res.EstimatedTax != 124800 {
		t.Errorf("tax = %v, want 124800", res.EstimatedTax)
	}
}

func TestEstimateTaxZeroIncome(t *testing.T) {
	res := EstimateTax(TaxRequest{})
	if res.EstimatedTax != 0 {
		t.Errorf("tax = %v, want 0", res.EstimatedTax)
	}
	if len(res.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
}

func TestExtractEntities(t *testing.T) {
	text := "PAN ABCDE1234F, salary INR 1,20,000 credited. Claimed 80C and hra. Small fee Rs. 500."
	res := ExtractEntities(text)

	if len(res.PANNumbers) != 1 || res.PANNumbers[0] != "ABCDE1234F" {
		t.Errorf("pans = %v", res.PANNumbers)
	}
	found80C, foundHRA := false, false
	for _, s := range res.DetectedSections {
		if s == "80C" {
			found80C = true
		}
		if s == "HRA" {
			foundHRA = true
		}
	}
	if !found80C || !foundHRA {
		t.Errorf("sections = %v, want 80C and HRA", res.DetectedSections)
	}
	if len(res.Amounts) == 0 {
		t.Error("expected amounts extracted")
	}
}

func TestAdviseInsurance(t *testing.T) {
	res := AdviseInsurance(InsuranceRequest{
		Age: 40, FamilyMembers: 4, MonthlyIncome: 50000,
		OccupationRiskLevel: "high", HealthConditions: []string{"diabetes"},
	})

	// Health cover: max(500000, 600000*0.5 + 4*100000) = 700000.
	if res.HealthInsuranceCover != 700000 {
		t.Errorf("health cover = %v, want 700000", res.HealthInsuranceCover)
	}
	// Life cover: max(600000*10, 1000000) = 6000000.
	if res.LifeInsuranceCover != 6000000 {
		t.Errorf("life cover = %v, want 6000000", res.LifeInsuranceCover)
	}
	if res.EmergencyFundTarget != 300000 {
		t.Errorf("emergency fund = %v, want 300000", res.EmergencyFundTarget)
	}

	joined := strings.Join(res.Recommendations, " ")
	if !strings.Contains(joined, "disability rider") {
		t.Error("expected high-risk occupation recommendation")
	}
	if !strings.Contains(joined, "waiting period") {
		t.Error("expected pre-existing condition recommendation")
	}
}

func TestRecommendInclusion(t *testing.T) {
	res := RecommendInclusion(InclusionRequest{MonthlyIncome: 15000, CIBILScore: 600})

	// income 15000/50000*40 = 12; (600-300)/600*60 = 30.
	if res.AlternativeCreditScore != 42 {
		t.Errorf("alt score = %v, want 42", res.AlternativeCreditScore)
	}
	if len(res.EligibleSchemes) != 4 {
		t.Errorf("schemes = %v, want all 4 bands matched", res.EligibleSchemes)
	}
	if len(res.MicroloanOptions) == 0 || len(res.LiteracyContent) == 0 {
		t.Error("expected static option lists")
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		text       string
		wantIntent string
		wantConf   float64
	}{
		{"I want a loan for my shop, what is the EMI and interest", "loan_application", 0.85},
		{"help with tax deduction under 80c", "tax_help", 0.85},
		{"how do I track my budget and expense", "budget_tracking", 0.7},
		{"what is the weather today", "general_query", 0.2},
	}
	for _, tt := range tests {
		res := ClassifyIntent(tt.text)
		if res.Intent != tt.wantIntent {
			t.Errorf("%q -> %q, want %q", tt.text, res.Intent, tt.wantIntent)
		}
		if res.Confidence != tt.wantConf {
			t.Errorf("%q confidence = %v, want %v", tt.text, res.Confidence, tt.wantConf)
		}
	}
}

func TestForecastNextMonth(t *testing.T) {
	res := ForecastNextMonth(ForecastRequest{
		MonthlyExpenseHistory: []float64{10000, 10000, 10000, 10000},
	})

	if res.NextMonthPrediction != 10000 {
		t.Errorf("prediction = %v, want 10000", res.NextMonthPrediction)
	}
	if res.Trend != "stable" {
		t.Errorf("trend = %q, want stable", res.Trend)
	}
	if res.ConfidenceBand.Lower != 10000 || res.ConfidenceBand.Upper != 10000 {
		t.Errorf("band = %+v, want degenerate at 10000", res.ConfidenceBand)
	}
}

func TestForecastRisingTrend(t *testing.T) {
	res := ForecastNextMonth(ForecastRequest{
		MonthlyExpenseHistory: []float64{10000, 11000, 12000, 13000},
	})

	if res.Trend != "rising" {
		t.Errorf("trend = %q, want rising", res.Trend)
	}
	if res.NextMonthPrediction <= 12000 {
		t.Errorf("prediction = %v, want above recent average", res.NextMonthPrediction)
	}
}

func TestCategorizeExpenses(t *testing.T) {
	res := CategorizeExpenses(CategorizeRequest{
		Transactions: []LabeledExpense{
			{Description: "Swiggy dinner", Amount: 450},
			{Description: "Grocery store", Amount: 1200},
			{Description: "Uber to airport", Amount: 600},
			{Description: "Monthly rent to landlord", Amount: 15000},
			{Description: "Mystery charge", Amount: 99},
		},
	})

	if res.CategorizedExpenses["food"] != 1650 {
		t.Errorf("food = %v, want 1650", res.CategorizedExpenses["food"])
	}
	if res.CategorizedExpenses["transport"] != 600 {
		t.Errorf("transport = %v, want 600", res.CategorizedExpenses["transport"])
	}
	if res.CategorizedExpenses["rent"] != 15000 {
		t.Errorf("rent = %v, want 15000", res.CategorizedExpenses["rent"])
	}
	if res.UncategorizedCount != 1 {
		t.Errorf("uncategorized = %d, want 1", res.UncategorizedCount)
	}
}
