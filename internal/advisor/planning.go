package advisor

import "math"

// GoalPlanRequest describes a savings goal.
type GoalPlanRequest struct {
	GoalName          string  `json:"goal_name"`
	TargetPrice       float64 `json:"target_price"`
	CurrentSaved      float64 `json:"current_saved"`
	TimeHorizonMonths int     `json:"time_horizon_months"`
	MonthlyIncome     float64 `json:"monthly_income"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
}

// BudgetSplit is a needs/wants/savings allocation of monthly income.
type BudgetSplit struct {
	Needs       float64 `json:"needs"`
	Wants       float64 `json:"wants"`
	SavingsGoal float64 `json:"savings_goal"`
}

// GoalPlanResponse is the computed plan.
type GoalPlanResponse struct {
	GoalName                  string      `json:"goal_name"`
	MonthlySavingTarget       float64     `json:"monthly_saving_target"`
	CurrentProgressPct        float64     `json:"current_progress_pct"`
	ProjectedCompletionMonths float64     `json:"projected_completion_months"`
	AdjustedBudgetPlan        BudgetSplit `json:"adjusted_budget_plan"`
	Notes                     []string    `json:"notes"`
}

// PlanGoal builds a monthly saving target and a 60/20/20 budget adjusted
// to absorb any shortfall.
func PlanGoal(req GoalPlanRequest) GoalPlanResponse {
	remaining := math.Max(req.TargetPrice-req.CurrentSaved, 0)
	monthlyTarget := remaining / float64(req.TimeHorizonMonths)
	surplus := math.Max(req.MonthlyIncome-req.MonthlyExpenses, 0)

	progress := 0.0
	if req.TargetPrice > 0 {
		progress = req.CurrentSaved / req.TargetPrice * 100
	}

	var projected float64
	if surplus > 0 {
		if remaining > 0 {
			projected = remaining / surplus
		}
	} else {
		projected = float64(req.TimeHorizonMonths) * 1.4
	}

	baseNeeds := req.MonthlyIncome * 0.6
	baseWants := req.MonthlyIncome * 0.2
	baseSavings := req.MonthlyIncome * 0.2
	extraRequired := math.Max(monthlyTarget-baseSavings, 0)

	budget := BudgetSplit{
		Needs:       round2(math.Max(baseNeeds-extraRequired*0.35, 0)),
		Wants:       round2(math.Max(baseWants-extraRequired*0.65, 0)),
		SavingsGoal: round2(baseSavings + extraRequired),
	}

	var notes []string
	if monthlyTarget > surplus {
		notes = append(notes, "Current surplus is lower than required monthly target; reduce discretionary spending or extend timeline.")
	} else {
		notes = append(notes, "Target is achievable within current cash flow if savings discipline is maintained.")
	}
	if progress >= 50 {
		notes = append(notes, "You are already past 50% progress. Keep contribution frequency consistent.")
	}

	return GoalPlanResponse{
		GoalName:                  req.GoalName,
		MonthlySavingTarget:       round2(monthlyTarget),
		CurrentProgressPct:        round2(progress),
		ProjectedCompletionMonths: round2(projected),
		AdjustedBudgetPlan:        budget,
		Notes:                     notes,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
