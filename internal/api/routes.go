package api

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts every endpoint under /api/v1.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	v1 := app.Group("/api/v1")

	v1.Get("/health", h.HandleHealth)

	risk := v1.Group("/risk")
	risk.Post("/assess", h.HandleRiskAssess)
	risk.Post("/bank-statement/analyze", h.HandleAnalyze)

	v1.Post("/loan/recommend", h.HandleLoanRecommend)
	v1.Post("/planning/goal-plan", h.HandleGoalPlan)

	tax := v1.Group("/tax")
	tax.Post("/estimate", h.HandleTaxEstimate)
	tax.Post("/extract-entities", h.HandleTaxExtract)

	v1.Post("/insurance/advise", h.HandleInsuranceAdvise)
	v1.Post("/inclusion/recommend", h.HandleInclusionRecommend)
	v1.Post("/voice/intent", h.HandleVoiceIntent)

	budget := v1.Group("/budget")
	budget.Post("/forecast", h.HandleBudgetForecast)
	budget.Post("/categorize", h.HandleBudgetCategorize)
	budget.Post("/cash-ledger", h.HandleLedgerAdd)
	budget.Get("/cash-ledger/report", h.HandleLedgerReport)
}
