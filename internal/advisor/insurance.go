package advisor

import "math"

// InsuranceRequest describes a household seeking cover advice.
type InsuranceRequest struct {
	Age                 int      `json:"age"`
	FamilyMembers       int      `json:"family_members"`
	MonthlyIncome       float64  `json:"monthly_income"`
	OccupationRiskLevel string   `json:"occupation_risk_level"` // low, medium, high
	HealthConditions    []string `json:"health_conditions"`
}

// InsuranceResponse carries recommended cover amounts.
type InsuranceResponse struct {
	RiskProfileScore     float64  `json:"risk_profile_score"`
	HealthInsuranceCover float64  `json:"health_insurance_cover"`
	LifeInsuranceCover   float64  `json:"life_insurance_cover"`
	EmergencyFundTarget  float64  `json:"emergency_fund_target"`
	Recommendations      []string `json:"recommendations"`
}

// AdviseInsurance scores the household risk profile and sizes health,
// life, and emergency-fund cover from income and family composition.
func AdviseInsurance(req InsuranceRequest) InsuranceResponse {
	conditionFactor := math.Min(float64(len(req.HealthConditions))*0.08, 0.25)

	occupationFactor := 0.2
	switch req.OccupationRiskLevel {
	case "low":
		occupationFactor = 0.1
	case "high":
		occupationFactor = 0.35
	}

	ageFactor := clamp(float64(req.Age-18)/62, 0, 1)
	familyFactor := math.Min(float64(req.FamilyMembers)/8, 1)

	riskProfile := (0.35*ageFactor + 0.25*familyFactor + 0.25*occupationFactor + 0.15*conditionFactor) * 100

	annualIncome := req.MonthlyIncome * 12
	healthCover := math.Max(500000, annualIncome*0.5+float64(req.FamilyMembers)*100000)
	lifeCover := math.Max(annualIncome*10, 1000000)
	emergencyFund := req.MonthlyIncome * 6

	recommendations := []string{
		"Prioritize base health insurance with hospitalization + critical illness add-on.",
		"Maintain term life cover at least 10x annual income.",
		"Create emergency corpus in liquid savings over 6-9 months.",
	}
	if req.OccupationRiskLevel == "high" {
		recommendations = append(recommendations, "Add accidental disability rider due to high occupation risk.")
	}
	if len(req.HealthConditions) > 0 {
		recommendations = append(recommendations, "Choose policy with lower waiting period for pre-existing conditions.")
	}

	return InsuranceResponse{
		RiskProfileScore:     round2(riskProfile),
		HealthInsuranceCover: round2(healthCover),
		LifeInsuranceCover:   round2(lifeCover),
		EmergencyFundTarget:  round2(emergencyFund),
		Recommendations:      recommendations,
	}
}
