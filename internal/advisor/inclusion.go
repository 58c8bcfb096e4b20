package advisor

import "math"

// InclusionRequest profiles a borrower underserved by formal credit.
type InclusionRequest struct {
	MonthlyIncome float64 `json:"monthly_income"`
	CIBILScore    int     `json:"cibil_score"`
}

// InclusionResponse lists support schemes and an alternative score.
type InclusionResponse struct {
	AlternativeCreditScore float64  `json:"alternative_credit_score"`
	EligibleSchemes        []string `json:"eligible_schemes"`
	MicroloanOptions       []string `json:"microloan_options"`
	LiteracyContent        []string `json:"literacy_content"`
}

// RecommendInclusion scores the profile on an income+bureau blend and
// matches government and community lending schemes by income band.
func RecommendInclusion(req InclusionRequest) InclusionResponse {
	incomeScore := math.Min(req.MonthlyIncome/50000, 1.0) * 40
	bureauScore := (float64(req.CIBILScore) - 300) / 600 * 60
	alternative := clamp(incomeScore+bureauScore, 0, 100)

	var schemes []string
	if req.MonthlyIncome < 25000 {
		schemes = append(schemes,
			"PM SVANidhi micro-credit support for small vendors",
			"MUDRA Shishu/Kishore loan eligibility screening")
	}
	if req.MonthlyIncome < 18000 {
		schemes = append(schemes, "State livelihood mission and subsidized SHG linkage")
	}
	if req.CIBILScore < 650 {
		schemes = append(schemes, "Credit counseling and assisted repayment plan")
	}

	return InclusionResponse{
		AlternativeCreditScore: round2(alternative),
		EligibleSchemes:        schemes,
		MicroloanOptions: []string{
			"NBFC-assisted microloan (small-ticket working capital)",
			"Joint liability group lending",
			"SHG-based community lending channels",
		},
		LiteracyContent: []string{
			"How EMI works and why debt-to-income matters",
			"3-step process to improve credit score in 6 months",
			"Emergency fund basics for informal income households",
		},
	}
}
