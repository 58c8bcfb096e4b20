// Package api exposes the analysis pipeline and the advisory
// calculators over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/finaware/statement-analyzer/internal/advisor"
	"github.com/finaware/statement-analyzer/internal/export"
	"github.com/finaware/statement-analyzer/internal/ledger"
	"github.com/finaware/statement-analyzer/internal/models"
	"github.com/finaware/statement-analyzer/internal/pipeline"
)

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	Analyzer       *pipeline.Analyzer
	Ledger         *ledger.Store
	LoanCatalog    *advisor.LoanCatalog
	RequestTimeout time.Duration
	Log            *slog.Logger
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// transactionView is the wire shape of one transaction. Dates render as
// YYYY-MM-DD and null fields stay null rather than zero.
type transactionView struct {
	Date        *string  `json:"date"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Balance     *float64 `json:"balance"`
}

type analyzeResponse struct {
	Format       models.Format           `json:"format"`
	Path         models.ParsePath        `json:"path"`
	Summary      models.StatementSummary `json:"summary"`
	Transactions []transactionView       `json:"transactions"`
	Confidence   float64                 `json:"confidence"`
	Quality      string                  `json:"quality"`
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "engine": "fiber"})
}

// HandleAnalyze accepts a multipart statement upload on form field
// "file" and returns the analysis. With ?format=csv the transactions
// are returned as a CSV attachment instead of JSON.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: "no file uploaded; use form field 'file'",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "cannot open upload"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "cannot read upload"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.RequestTimeout)
	defer cancel()

	result, err := h.Analyzer.Analyze(ctx, models.RawDocument{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrTimeout) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(errorResponse{
				Error:     "analysis timed out; please retry",
				Retryable: true,
			})
		}
		h.Log.Error("analysis failed", "filename", fileHeader.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "analysis failed"})
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		writer := &export.CSVWriter{IncludeMetadata: true}
		if err := writer.Write(&buf, result); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "csv export failed"})
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
		return c.Send(buf.Bytes())
	}

	return c.JSON(toAnalyzeResponse(result))
}

func toAnalyzeResponse(result *models.AnalysisResult) analyzeResponse {
	views := make([]transactionView, 0, len(result.Transactions))
	for _, txn := range result.Transactions {
		view := transactionView{
			Description: txn.Description,
			Amount:      txn.Amount.InexactFloat64(),
		}
		if txn.Date != nil {
			s := txn.Date.Format("2006-01-02")
			view.Date = &s
		}
		if txn.BalanceAfter != nil {
			b := txn.BalanceAfter.InexactFloat64()
			view.Balance = &b
		}
		views = append(views, view)
	}
	return analyzeResponse{
		Format:       result.Format,
		Path:         result.Path,
		Summary:      result.Summary,
		Transactions: views,
		Confidence:   result.Confidence,
		Quality:      result.Quality,
	}
}

// HandleRiskAssess scores a loan application.
func (h *Handler) HandleRiskAssess(c *fiber.Ctx) error {
	var req advisor.RiskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.MonthlyIncome <= 0 || req.LoanAmount <= 0 || req.Age < 18 {
		return badRequest(c, "age must be 18+, monthly_income and loan_amount must be positive")
	}
	return c.JSON(advisor.AssessRisk(req))
}

// HandleLoanRecommend ranks catalog loan products for an applicant.
// Returns 503 when no catalog was configured at startup.
func (h *Handler) HandleLoanRecommend(c *fiber.Ctx) error {
	if h.LoanCatalog == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorResponse{
			Error: "loan catalog not available; set LOAN_DATASET_PATH",
		})
	}

	var req advisor.LoanRecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.RequestedAmount <= 0 {
		return badRequest(c, "requested_amount must be positive")
	}
	switch req.RiskCategory {
	case "Low", "Medium", "High":
	default:
		return badRequest(c, "risk_category must be Low, Medium, or High")
	}
	if req.ApprovalProbability < 0 || req.ApprovalProbability > 100 {
		return badRequest(c, "approval_probability must be between 0 and 100")
	}

	resp, err := h.LoanCatalog.Recommend(req)
	if err != nil {
		h.Log.Error("loan recommendation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "loan recommendation failed"})
	}
	return c.JSON(resp)
}

// HandleGoalPlan builds a savings plan for a goal.
func (h *Handler) HandleGoalPlan(c *fiber.Ctx) error {
	var req advisor.GoalPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.TargetPrice <= 0 || req.TimeHorizonMonths <= 0 {
		return badRequest(c, "target_price and time_horizon_months must be positive")
	}
	return c.JSON(advisor.PlanGoal(req))
}

// HandleTaxEstimate runs the simplified old-regime estimator.
func (h *Handler) HandleTaxEstimate(c *fiber.Ctx) error {
	var req advisor.TaxRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return c.JSON(advisor.EstimateTax(req))
}

// HandleTaxExtract pulls PANs, amounts, and section mentions from text.
func (h *Handler) HandleTaxExtract(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Text == "" {
		return badRequest(c, "text is required")
	}
	return c.JSON(advisor.ExtractEntities(req.Text))
}

// HandleInsuranceAdvise sizes health and life cover.
func (h *Handler) HandleInsuranceAdvise(c *fiber.Ctx) error {
	var req advisor.InsuranceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	switch req.OccupationRiskLevel {
	case "low", "medium", "high":
	default:
		return badRequest(c, "occupation_risk_level must be low, medium, or high")
	}
	return c.JSON(advisor.AdviseInsurance(req))
}

// HandleInclusionRecommend matches inclusion schemes to a profile.
func (h *Handler) HandleInclusionRecommend(c *fiber.Ctx) error {
	var req advisor.InclusionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.CIBILScore < 300 || req.CIBILScore > 900 {
		return badRequest(c, "cibil_score must be between 300 and 900")
	}
	return c.JSON(advisor.RecommendInclusion(req))
}

// HandleVoiceIntent classifies a transcribed utterance.
func (h *Handler) HandleVoiceIntent(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Text == "" {
		return badRequest(c, "text is required")
	}
	return c.JSON(advisor.ClassifyIntent(req.Text))
}

// HandleBudgetForecast predicts next month's spend.
func (h *Handler) HandleBudgetForecast(c *fiber.Ctx) error {
	var req advisor.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.MonthlyExpenseHistory) < 2 {
		return badRequest(c, "monthly_expense_history needs at least 2 months")
	}
	return c.JSON(advisor.ForecastNextMonth(req))
}

// HandleBudgetCategorize buckets expenses by description keywords.
func (h *Handler) HandleBudgetCategorize(c *fiber.Ctx) error {
	var req advisor.CategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return c.JSON(advisor.CategorizeExpenses(req))
}

type ledgerEntryRequest struct {
	UserID      string  `json:"user_id"`
	EntryDate   string  `json:"entry_date"`
	EntryType   string  `json:"entry_type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// HandleLedgerAdd records one cash movement and returns the updated day
// summary alongside the entry.
func (h *Handler) HandleLedgerAdd(c *fiber.Ctx) error {
	var req ledgerEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	entry, day, err := h.Ledger.Add(req.UserID, req.EntryDate, req.EntryType, req.Description,
		decimal.NewFromFloat(req.Amount))
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"entry": entry, "day_summary": day})
}

// HandleLedgerReport returns a user's entries and daily summaries,
// optionally bounded by start_date and end_date query parameters.
func (h *Handler) HandleLedgerReport(c *fiber.Ctx) error {
	report, err := h.Ledger.Report(c.Query("user_id"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(report)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msg})
}
