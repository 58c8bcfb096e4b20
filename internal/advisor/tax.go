package advisor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	cap80C = 150000.0
	cap80D = 25000.0
)

var (
	panPattern     = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	amountPattern  = regexp.MustCompile(`(?:INR|Rs\.?|₹)?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]+)?|[0-9]+(?:\.[0-9]+)?)`)
	sectionPattern = regexp.MustCompile(`(?i)\b80C|80D|80CCD|HRA|LTA\b`)
)

// TaxRequest is an annual income-and-deduction declaration.
type TaxRequest struct {
	SalaryIncome    float64 `json:"salary_income"`
	BusinessIncome  float64 `json:"business_income"`
	OtherIncome     float64 `json:"other_income"`
	Investments80C  float64 `json:"investments_80c"`
	Insurance80D    float64 `json:"insurance_80d"`
	OtherDeductions float64 `json:"other_deductions"`
}

// TaxResponse is the simplified old-regime estimate.
type TaxResponse struct {
	GrossIncome       float64            `json:"gross_income"`
	TaxableIncome     float64            `json:"taxable_income"`
	EstimatedTax      float64            `json:"estimated_tax"`
	DeductionsApplied map[string]float64 `json:"deductions_applied"`
	Suggestions       []string           `json:"suggestions"`
}

// ExtractedEntities are financial entities found in free text.
type ExtractedEntities struct {
	PANNumbers          []string  `json:"pan_numbers"`
	Amounts             []float64 `json:"amounts"`
	LikelyIncomeAmounts []float64 `json:"likely_income_amounts"`
	DetectedSections    []string  `json:"detected_sections"`
}

// oldRegimeTax applies the progressive slab rates plus 4% cess.
func oldRegimeTax(taxableIncome float64) float64 {
	slabs := []struct {
		cap  float64
		rate float64
	}{
		{250000, 0.0},
		{250000, 0.05},
		{500000, 0.2},
		{-1, 0.3},
	}
	tax := 0.0
	remaining := taxableIncome
	for _, slab := range slabs {
		if remaining <= 0 {
			break
		}
		segment := remaining
		if slab.cap > 0 && segment > slab.cap {
			segment = slab.cap
		}
		tax += segment * slab.rate
		remaining -= segment
	}
	return tax * 1.04
}

// EstimateTax computes gross income, applies capped 80C/80D deductions,
// and returns the old-regime tax with suggestions on unused headroom.
func EstimateTax(req TaxRequest) TaxResponse {
	gross := req.SalaryIncome + req.BusinessIncome + req.OtherIncome

	ded80C := req.Investments80C
	if ded80C > cap80C {
		ded80C = cap80C
	}
	ded80D := req.Insurance80D
	if ded80D > cap80D {
		ded80D = cap80D
	}
	taxable := gross - ded80C - ded80D - req.OtherDeductions
	if taxable < 0 {
		taxable = 0
	}

	var suggestions []string
	if req.Investments80C < cap80C {
		suggestions = append(suggestions,
			fmt.Sprintf("You can still claim up to INR %.0f under Section 80C.", cap80C-req.Investments80C))
	}
	if req.Insurance80D < cap80D {
		suggestions = append(suggestions,
			fmt.Sprintf("You can still claim up to INR %.0f under Section 80D.", cap80D-req.Insurance80D))
	}
	if req.OtherDeductions <= 0 {
		suggestions = append(suggestions, "Review HRA/LTA and education-loan deductions if applicable.")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Current deductions are near practical limits for this simplified tax model.")
	}

	return TaxResponse{
		GrossIncome:   round2(gross),
		TaxableIncome: round2(taxable),
		EstimatedTax:  round2(oldRegimeTax(taxable)),
		DeductionsApplied: map[string]float64{
			"80C":              round2(ded80C),
			"80D":              round2(ded80D),
			"other_deductions": round2(req.OtherDeductions),
		},
		Suggestions: suggestions,
	}
}

// ExtractEntities pulls PAN numbers, amounts, and tax section mentions
// from raw document text.
func ExtractEntities(text string) ExtractedEntities {
	seen := map[string]bool{}
	var pans []string
	for _, pan := range panPattern.FindAllString(strings.ToUpper(text), -1) {
		if !seen[pan] {
			seen[pan] = true
			pans = append(pans, pan)
		}
	}

	var amounts []float64
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			amounts = append(amounts, v)
		}
	}

	sectionSet := map[string]bool{}
	for _, s := range sectionPattern.FindAllString(text, -1) {
		sectionSet[strings.ToUpper(s)] = true
	}
	sections := make([]string, 0, len(sectionSet))
	for s := range sectionSet {
		sections = append(sections, s)
	}
	sort.Strings(sections)

	var likelyIncome []float64
	for _, a := range amounts {
		if a > 10000 {
			likelyIncome = append(likelyIncome, a)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(likelyIncome)))
	if len(likelyIncome) > 3 {
		likelyIncome = likelyIncome[:3]
	}

	if len(amounts) > 15 {
		amounts = amounts[:15]
	}
	return ExtractedEntities{
		PANNumbers:          pans,
		Amounts:             amounts,
		LikelyIncomeAmounts: likelyIncome,
		DetectedSections:    sections,
	}
}
