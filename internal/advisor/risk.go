// Package advisor holds the rule-based financial guidance calculators:
// loan risk assessment, goal planning, tax estimation, insurance and
// inclusion advice, budget tools, and intent classification. Every
// function is pure; nothing here touches storage.
package advisor

import (
	"fmt"
	"math"
	"strings"
)

// RiskRequest is a loan applicant profile.
type RiskRequest struct {
	Age             int     `json:"age"`
	Occupation      string  `json:"occupation"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	ExistingEMIs    float64 `json:"existing_emis"`
	CurrentSavings  float64 `json:"current_savings"`
	LoanAmount      float64 `json:"loan_amount"`
	Purpose         string  `json:"purpose"`
	CIBILScore      *int    `json:"cibil_score,omitempty"`
}

// RiskResponse is the assessment result.
type RiskResponse struct {
	DefaultProbability    float64  `json:"default_probability"`
	ApprovalProbability   float64  `json:"approval_probability"`
	RiskCategory          string   `json:"risk_category"`
	CIBILScoreUsed        int      `json:"cibil_score_used"`
	CIBILEstimated        bool     `json:"cibil_estimated"`
	Remarks               []string `json:"remarks"`
	RecommendedLoanType   string   `json:"recommended_loan_type"`
	SuggestedTenureMonths int      `json:"suggested_tenure_months"`
	EstimatedMonthlyEMI   float64  `json:"estimated_monthly_emi"`
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

func containsAny(text string, needles ...string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

type purposeProfile struct {
	loanType  string
	rate      float64
	minTenure int
	maxTenure int
	risk      float64
}

func profileForPurpose(purpose string) purposeProfile {
	switch {
	case containsAny(purpose, "home", "house", "property"):
		return purposeProfile{"Home Loan", 9.0, 120, 300, 16.0}
	case containsAny(purpose, "education", "study", "college", "course"):
		return purposeProfile{"Education Loan", 10.0, 36, 120, 20.0}
	case containsAny(purpose, "business", "inventory", "shop", "working capital"):
		return purposeProfile{"Business Loan", 14.0, 12, 60, 28.0}
	case containsAny(purpose, "vehicle", "bike", "car", "auto"):
		return purposeProfile{"Vehicle Loan", 11.0, 24, 84, 22.0}
	case containsAny(purpose, "medical", "health", "hospital"):
		return purposeProfile{"Medical Personal Loan", 15.0, 12, 48, 30.0}
	}
	return purposeProfile{"Personal Loan", 16.0, 12, 60, 32.0}
}

func occupationRisk(occupation string) (float64, string) {
	switch {
	case containsAny(occupation, "government", "govt", "teacher", "bank employee"):
		return 12.0, "Your occupation profile appears stable, which supports repayment reliability."
	case containsAny(occupation, "salaried", "software", "engineer", "private employee"):
		return 16.0, "A regular salaried income pattern generally improves repayment consistency."
	case containsAny(occupation, "self", "business", "shop", "vendor", "trader"):
		return 24.0, "Self-employment can involve income variability, so risk is treated as moderate."
	case containsAny(occupation, "daily wage", "freelancer", "contract"):
		return 34.0, "This occupation type may have uneven monthly cash flow, increasing repayment uncertainty."
	case containsAny(occupation, "student"):
		return 36.0, "Student profiles usually have limited independent repayment capacity at present."
	}
	return 26.0, "Occupation profile indicates a moderate repayment risk band."
}

func ageRisk(age int) (float64, string) {
	switch {
	case age >= 23 && age <= 55:
		return 14.0, "Your age bracket is typically aligned with stable earning years."
	case age >= 18 && age < 23:
		return 28.0, "Early-career age bands often have developing income stability."
	case age >= 56 && age <= 65:
		return 26.0, "This age band can reduce lender flexibility for longer tenures."
	}
	return 34.0, "This profile may require shorter tenure and tighter lending terms."
}

// financialCondition is a small occupation+age model yielding a condition
// score out of 100 and the risk it contributes.
func financialCondition(occupation string, age int) (score, risk float64, note string) {
	occ, _ := occupationRisk(occupation)
	ag, _ := ageRisk(age)
	risk = 0.62*occ + 0.38*ag
	score = clamp(100-risk, 5.0, 95.0)

	label := "Vulnerable"
	if score >= 72 {
		label = "Strong"
	} else if score >= 52 {
		label = "Moderate"
	}
	note = fmt.Sprintf(
		"Financial-condition model (occupation + age) indicates a %s profile with score %.1f/100.",
		strings.ToLower(label), score)
	return score, risk, note
}

func cibilRisk(score int, estimated bool) (float64, string) {
	source := "provided by you"
	if estimated {
		source = "estimated from your profile"
	}
	switch {
	case score >= 780:
		return 8.0, fmt.Sprintf("The CIBIL score (%d, %s) is strong and supports high lender confidence.", score, source)
	case score >= 720:
		return 14.0, fmt.Sprintf("The CIBIL score (%d, %s) is good and supports approval probability.", score, source)
	case score >= 680:
		return 22.0, fmt.Sprintf("The CIBIL score (%d, %s) is fair, indicating moderate credit risk.", score, source)
	case score >= 620:
		return 34.0, fmt.Sprintf("The CIBIL score (%d, %s) is below ideal and may reduce approval odds.", score, source)
	}
	return 46.0, fmt.Sprintf("The CIBIL score (%d, %s) is low, which materially increases risk.", score, source)
}

func emiPressureRisk(income, existingEMIs float64) (float64, string) {
	ratio := existingEMIs / math.Max(income, 1.0)
	switch {
	case ratio <= 0.2:
		return 10.0, "Current EMI commitments are light relative to monthly income."
	case ratio <= 0.35:
		return 20.0, "Current EMI commitments are manageable, though repayment headroom is moderate."
	case ratio <= 0.5:
		return 34.0, "Existing EMI obligations consume a significant portion of income."
	}
	return 48.0, "High existing EMI obligations create strong repayment pressure."
}

func loanBurdenRisk(income, loanAmount float64) (float64, string) {
	ratio := loanAmount / math.Max(income*12.0, 1.0)
	switch {
	case ratio <= 0.5:
		return 12.0, "Requested loan size is modest relative to estimated annual income."
	case ratio <= 1.0:
		return 20.0, "Requested loan size appears reasonable for the current income profile."
	case ratio <= 1.8:
		return 32.0, "Requested loan size is high relative to annual income."
	}
	return 44.0, "Requested loan size is very high relative to annual income."
}

func expenseRisk(income, expenses float64) (float64, string) {
	ratio := expenses / math.Max(income, 1.0)
	switch {
	case ratio <= 0.45:
		return 10.0, "Monthly expense levels are well within income capacity."
	case ratio <= 0.65:
		return 20.0, "Monthly expense levels are moderate relative to income."
	case ratio <= 0.8:
		return 34.0, "Monthly expense levels are high and may pressure repayments."
	}
	return 48.0, "Very high expense levels leave limited room for additional EMI."
}

func savingsRisk(income, savings float64) (float64, string) {
	ratio := savings / math.Max(income, 1.0)
	switch {
	case ratio >= 6:
		return 8.0, "Current savings provide a strong financial cushion for repayment continuity."
	case ratio >= 3:
		return 16.0, "Savings buffer is healthy and supports repayment resilience."
	case ratio >= 1:
		return 26.0, "Savings are limited; increasing reserves would further reduce risk."
	}
	return 40.0, "Low savings increase vulnerability to income and expense shocks."
}

// estimateCIBIL derives a plausible bureau score from the profile when
// the applicant did not provide one.
func estimateCIBIL(req RiskRequest) int {
	incomeRatio := clamp(req.MonthlyIncome/100000.0, 0.0, 1.0)
	emiRatio := clamp(req.ExistingEMIs/math.Max(req.MonthlyIncome, 1.0), 0.0, 1.2)
	expenseRatio := clamp(req.MonthlyExpenses/math.Max(req.MonthlyIncome, 1.0), 0.0, 1.4)
	savingsMonths := clamp(req.CurrentSavings/math.Max(req.MonthlyIncome, 1.0), 0.0, 12.0)
	loanBurden := clamp(req.LoanAmount/math.Max(req.MonthlyIncome*12.0, 1.0), 0.0, 3.0)

	occRisk, _ := occupationRisk(req.Occupation)
	agRisk, _ := ageRisk(req.Age)

	savingsTerm := 1.0
	if savingsMonths <= 6 {
		savingsTerm = savingsMonths / 6.0
	}

	score := 675 +
		35*incomeRatio -
		95*emiRatio -
		75*math.Max(expenseRatio-0.45, 0.0) +
		28*savingsTerm -
		45*math.Max(loanBurden-0.8, 0.0) -
		0.8*occRisk -
		0.5*agRisk
	return int(math.Round(clamp(score, 520, 790)))
}

// emi computes the standard amortized monthly installment.
func emi(principal, annualRate float64, tenureMonths int) float64 {
	monthlyRate := annualRate / 12 / 100
	if monthlyRate == 0 {
		return principal / float64(tenureMonths)
	}
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	return principal * monthlyRate * factor / (factor - 1)
}

// pickTenure finds the shortest tenure whose EMI fits the applicant's
// affordable monthly payment, stepping by 6 or 12 months.
func pickTenure(loanAmount, annualRate float64, minTenure, maxTenure int, income, existingEMIs, expenses float64) (int, float64) {
	step := 6
	if maxTenure > 96 {
		step = 12
	}
	var options []int
	for t := minTenure; t <= maxTenure; t += step {
		options = append(options, t)
	}
	if len(options) == 0 || options[len(options)-1] != maxTenure {
		options = append(options, maxTenure)
	}

	affordable := math.Max(income-expenses-existingEMIs, income*0.08)
	chosenTenure := maxTenure
	chosenEMI := emi(loanAmount, annualRate, chosenTenure)

	for _, tenure := range options {
		if payment := emi(loanAmount, annualRate, tenure); payment <= affordable {
			chosenTenure = tenure
			chosenEMI = payment
			break
		}
	}
	return chosenTenure, chosenEMI
}

// AssessRisk runs the weighted component model over a loan application.
func AssessRisk(req RiskRequest) RiskResponse {
	profile := profileForPurpose(req.Purpose)

	emiRisk, emiMsg := emiPressureRisk(req.MonthlyIncome, req.ExistingEMIs)
	sizeRisk, sizeMsg := loanBurdenRisk(req.MonthlyIncome, req.LoanAmount)
	expRisk, expMsg := expenseRisk(req.MonthlyIncome, req.MonthlyExpenses)
	savRisk, savMsg := savingsRisk(req.MonthlyIncome, req.CurrentSavings)
	_, condRisk, condMsg := financialCondition(req.Occupation, req.Age)

	estimated := req.CIBILScore == nil
	scoreUsed := 0
	if estimated {
		scoreUsed = estimateCIBIL(req)
	} else {
		scoreUsed = *req.CIBILScore
	}
	cibRisk, cibMsg := cibilRisk(scoreUsed, estimated)

	type component struct {
		risk   float64
		weight float64
	}
	components := []component{
		{emiRisk, 0.20},
		{sizeRisk, 0.18},
		{expRisk, 0.16},
		{savRisk, 0.12},
		{condRisk, 0.17},
		{profile.risk, 0.07},
		{cibRisk, 0.10},
	}
	totalWeight, weighted := 0.0, 0.0
	for _, c := range components {
		totalWeight += c.weight
		weighted += c.risk * c.weight
	}
	riskScore := weighted / math.Max(totalWeight, 1e-9)

	defaultProb := math.Round(clamp(riskScore, 3.0, 95.0)*100) / 100
	approvalProb := math.Round((100-defaultProb)*100) / 100
	category := "High"
	if defaultProb < 30 {
		category = "Low"
	} else if defaultProb < 60 {
		category = "Medium"
	}

	tenure, estimatedEMI := pickTenure(
		req.LoanAmount, profile.rate, profile.minTenure, profile.maxTenure,
		req.MonthlyIncome, req.ExistingEMIs, req.MonthlyExpenses)

	// The highest-risk component drives the headline remark.
	drivers := []struct {
		risk float64
		msg  string
	}{
		{emiRisk, emiMsg}, {sizeRisk, sizeMsg}, {expRisk, expMsg},
		{savRisk, savMsg}, {condRisk, condMsg}, {cibRisk, cibMsg},
	}
	primary := drivers[0]
	for _, d := range drivers[1:] {
		if d.risk > primary.risk {
			primary = d
		}
	}

	emiRatio := req.ExistingEMIs / math.Max(req.MonthlyIncome, 1.0)
	expenseRatio := req.MonthlyExpenses / math.Max(req.MonthlyIncome, 1.0)
	savingsMonths := req.CurrentSavings / math.Max(req.MonthlyIncome, 1.0)
	loanToAnnual := req.LoanAmount / math.Max(req.MonthlyIncome*12.0, 1.0)
	cibilSource := "provided"
	if estimated {
		cibilSource = "estimated"
	}

	remarks := []string{
		fmt.Sprintf("Default probability is %.2f%% from your profile inputs. Approval probability is therefore %.2f%% (calculated as 100 - default probability).",
			defaultProb, approvalProb),
		fmt.Sprintf("Key drivers: EMI-to-income is %.1f%%, expense-to-income is %.1f%%, savings cover is about %.1f month(s), and CIBIL used is %d (%s).",
			emiRatio*100, expenseRatio*100, savingsMonths, scoreUsed, cibilSource),
		condMsg,
		primary.msg,
		fmt.Sprintf("Best-fit product for your purpose (%s) is %s, with suggested tenure around %d months. Requested loan size is %.1f%% of annual income.",
			req.Purpose, profile.loanType, tenure, loanToAnnual*100),
	}

	return RiskResponse{
		DefaultProbability:    defaultProb,
		ApprovalProbability:   approvalProb,
		RiskCategory:          category,
		CIBILScoreUsed:        scoreUsed,
		CIBILEstimated:        estimated,
		Remarks:               remarks,
		RecommendedLoanType:   profile.loanType,
		SuggestedTenureMonths: tenure,
		EstimatedMonthlyEMI:   math.Round(estimatedEMI*100) / 100,
	}
}
