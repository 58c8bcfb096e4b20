package advisor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptyCatalog means the catalog file parsed but held no usable rows.
var ErrEmptyCatalog = errors.New("loan catalog is empty")

// LoanRecommendationRequest asks for products matching an applicant.
type LoanRecommendationRequest struct {
	RequestedAmount     float64 `json:"requested_amount"`
	RiskCategory        string  `json:"risk_category"`
	ApprovalProbability float64 `json:"approval_probability"`
	Occupation          string  `json:"occupation"`
	Purpose             string  `json:"purpose"`
}

// LoanOption is one scored catalog product.
type LoanOption struct {
	LenderName                  string  `json:"lender_name"`
	LoanScore                   float64 `json:"loan_score"`
	EstimatedEMI                float64 `json:"estimated_emi"`
	AnnualInterestRate          float64 `json:"annual_interest_rate"`
	AnnualTaxSavings            float64 `json:"annual_tax_savings"`
	AdjustedApprovalProbability float64 `json:"adjusted_approval_probability"`
}

// LoanRecommendationResponse ranks the catalog for the applicant.
type LoanRecommendationResponse struct {
	BestOption    LoanOption   `json:"best_option"`
	RankedOptions []LoanOption `json:"ranked_options"`
}

// LoanProduct is one row of the loan catalog.
type LoanProduct struct {
	Category       string
	Type           string
	SubType        string
	TargetSegment  string
	Notes          string
	TenureYears    string
	TypicalLenders string
	LenderType     string
	Secured        string
}

// LoanCatalog holds the product rows scored by Recommend.
type LoanCatalog struct {
	Products []LoanProduct
}

// LoadLoanCatalog reads a header-keyed CSV of loan products. Blank rows
// are skipped.
func LoadLoanCatalog(path string) (*LoanCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read loan catalog: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse loan catalog: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyCatalog
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	catalog := &LoanCatalog{}
	for _, row := range records[1:] {
		product := LoanProduct{
			Category:       field(row, "loan_category"),
			Type:           field(row, "loan_type"),
			SubType:        field(row, "sub_type"),
			TargetSegment:  field(row, "target_segment"),
			Notes:          field(row, "notes"),
			TenureYears:    field(row, "typical_tenure_years"),
			TypicalLenders: field(row, "typical_lenders"),
			LenderType:     field(row, "lender_type"),
			Secured:        field(row, "secured"),
		}
		if product == (LoanProduct{}) {
			continue
		}
		catalog.Products = append(catalog.Products, product)
	}
	if len(catalog.Products) == 0 {
		return nil, ErrEmptyCatalog
	}
	return catalog, nil
}

var tenureNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseTenureMonths reads a free-form tenure band like "1-5" or "0.5 to
// 2" in years and converts it to a months range.
func parseTenureMonths(tenureYears string) (int, int) {
	numbers := tenureNumber.FindAllString(tenureYears, -1)
	if len(numbers) == 0 {
		return 12, 60
	}
	minYears, maxYears := math.MaxFloat64, 0.0
	for _, n := range numbers {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			continue
		}
		minYears = math.Min(minYears, v)
		maxYears = math.Max(maxYears, v)
	}
	if maxYears == 0 {
		return 12, 60
	}
	minMonths := int(math.Round(minYears * 12))
	if minMonths < 1 {
		minMonths = 1
	}
	maxMonths := int(math.Round(maxYears * 12))
	if maxMonths < minMonths {
		maxMonths = minMonths
	}
	return minMonths, maxMonths
}

func securedLabel(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(text, "yes/no"):
		return "mixed"
	case strings.HasPrefix(text, "yes"):
		return "yes"
	}
	return "no"
}

var categoryBaseRates = map[string]float64{
	"retail":            11.8,
	"business":          12.8,
	"agriculture":       8.4,
	"priority sector":   8.8,
	"government scheme": 9.2,
	"digital lending":   18.5,
	"rural":             11.2,
	"housing":           9.0,
}

// estimateInterestRate builds a quote band from category, product type,
// collateral, lender type, and the applicant's risk category.
func estimateInterestRate(p LoanProduct, riskCategory string) float64 {
	category := strings.ToLower(strings.TrimSpace(p.Category))
	loanType := strings.ToLower(strings.TrimSpace(p.Type))
	lenderType := strings.ToLower(strings.TrimSpace(p.LenderType))
	secured := securedLabel(p.Secured)

	rate, ok := categoryBaseRates[category]
	if !ok {
		rate = 12.5
	}
	switch {
	case strings.Contains(loanType, "home loan") || strings.Contains(loanType, "affordable housing"):
		rate = 8.7
	case strings.Contains(loanType, "education loan"):
		rate = 10.2
	case strings.Contains(loanType, "gold loan"):
		rate = 10.8
	case strings.Contains(loanType, "loan against property"):
		rate = 10.5
	case strings.Contains(loanType, "personal loan"):
		rate = 14.4
	case strings.Contains(loanType, "bnpl"):
		rate = 21.0
	case strings.Contains(loanType, "merchant cash advance"):
		rate = 22.0
	}

	switch secured {
	case "yes":
		rate -= 1.0
	case "no":
		rate += 0.8
	}

	if strings.Contains(lenderType, "fintech") {
		rate += 1.0
	}
	if strings.Contains(lenderType, "nbfc") {
		rate += 0.5
	}
	if strings.Contains(lenderType, "coop") {
		rate -= 0.3
	}

	switch riskCategory {
	case "Low":
		rate -= 0.7
	case "High":
		rate += 1.5
	}
	return round2(clamp(rate, 6.5, 28.0))
}

// benefitScore reflects subsidies and tax treatment by product family.
func benefitScore(p LoanProduct) float64 {
	category := strings.ToLower(strings.TrimSpace(p.Category))
	loanType := strings.ToLower(strings.TrimSpace(p.Type))
	switch {
	case category == "government scheme":
		return 75
	case category == "priority sector":
		return 62
	case category == "agriculture":
		return 58
	case strings.Contains(loanType, "home loan") || category == "housing":
		return 52
	case strings.Contains(loanType, "education loan"):
		return 44
	case category == "business":
		return 26
	case category == "digital lending":
		return 8
	}
	return 18
}

func productText(p LoanProduct) string {
	parts := []string{p.Category, p.Type, p.SubType, p.TargetSegment, p.Notes}
	for i, part := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(part))
	}
	return strings.Join(parts, " ")
}

// amountRange maps a product to its typical sanction band in rupees.
func amountRange(p LoanProduct) (float64, float64) {
	text := productText(p)
	switch {
	case strings.Contains(text, "shishu"):
		return 10000, 50000
	case strings.Contains(text, "kishore"):
		return 50000, 500000
	case strings.Contains(text, "tarun"):
		return 500000, 1000000
	case strings.Contains(text, "bnpl"):
		return 1000, 50000
	case strings.Contains(text, "consumer durable"):
		return 5000, 200000
	case strings.Contains(text, "instant personal"):
		return 5000, 250000
	case strings.Contains(text, "two wheeler"):
		return 30000, 300000
	case strings.Contains(text, "crop loan") || strings.Contains(text, "kisan credit card"):
		return 10000, 500000
	case strings.Contains(text, "education loan") && strings.Contains(text, "abroad"):
		return 300000, 5000000
	case strings.Contains(text, "education loan"):
		return 100000, 1500000
	case strings.Contains(text, "vehicle loan") && strings.Contains(text, "car"):
		return 150000, 2500000
	case strings.Contains(text, "gold loan"):
		return 10000, 3000000
	case strings.Contains(text, "home loan") || strings.Contains(text, "affordable housing"):
		return 500000, 15000000
	case strings.Contains(text, "loan against property"):
		return 500000, 25000000
	case strings.Contains(text, "reverse mortgage"):
		return 500000, 10000000
	case strings.Contains(text, "startup loan"):
		return 200000, 20000000
	case strings.Contains(text, "invoice financing") || strings.Contains(text, "trade finance"):
		return 50000, 10000000
	case strings.Contains(text, "msme") || strings.Contains(text, "equipment finance"):
		return 100000, 10000000
	case strings.Contains(text, "merchant cash advance"):
		return 20000, 1000000
	case strings.Contains(text, "self help group") || strings.Contains(text, "joint liability group"):
		return 10000, 500000
	case strings.Contains(text, "personal loan"):
		return 20000, 2000000
	}
	return 50000, 3000000
}

// amountFitScore is 100 inside the product's band and decays with the
// relative gap outside it.
func amountFitScore(requested, minAmount, maxAmount float64) float64 {
	if requested >= minAmount && requested <= maxAmount {
		return 100
	}
	var gap float64
	if requested < minAmount {
		gap = (minAmount - requested) / math.Max(minAmount, 1.0)
	} else {
		gap = (requested - maxAmount) / math.Max(maxAmount, 1.0)
	}
	return clamp(100-gap*160, 0, 100)
}

// applicantSegments derives borrower segments from occupation and
// purpose keywords. Every applicant is at least "individual".
func applicantSegments(occupation, purpose string) map[string]bool {
	text := strings.ToLower(strings.TrimSpace(occupation) + " " + strings.TrimSpace(purpose))
	segments := map[string]bool{"individual": true}

	if containsAny(text, "salaried", "salary", "employee") {
		segments["salaried"] = true
	}
	if containsAny(text, "student", "study", "education", "college") {
		segments["students"] = true
	}
	if containsAny(text, "farmer", "agri", "crop", "agriculture") {
		segments["farmers"] = true
	}
	if containsAny(text, "business", "shop", "vendor", "merchant", "self employed",
		"self-employed", "sme", "msme", "startup", "entrepreneur", "trade") {
		segments["business"] = true
	}
	if containsAny(text, "woman", "women", "female") {
		segments["women"] = true
	}
	return segments
}

func segmentFitScore(targetSegment string, segments map[string]bool) float64 {
	target := strings.ToLower(strings.TrimSpace(targetSegment))
	if target == "" {
		return 65
	}
	pick := func(hit bool, yes, no float64) float64 {
		if hit {
			return yes
		}
		return no
	}
	switch {
	case containsAny(target, "individual", "consumer", "existing borrower"):
		return pick(segments["individual"], 92, 70)
	case strings.Contains(target, "salaried"):
		return pick(segments["salaried"], 95, 62)
	case strings.Contains(target, "student"):
		return pick(segments["students"], 98, 28)
	case strings.Contains(target, "farmer"):
		return pick(segments["farmers"], 98, 28)
	case containsAny(target, "business", "sme", "msme", "micro business", "small merchant", "entrepreneur"):
		return pick(segments["business"], 95, 48)
	case strings.Contains(target, "women"):
		return pick(segments["women"], 90, 44)
	case strings.Contains(target, "senior"):
		return 35
	}
	return 65
}

// riskProductMultiplier scales the applicant's approval probability by
// how forgiving the product family is for their risk band.
func riskProductMultiplier(p LoanProduct, riskCategory string) float64 {
	category := strings.ToLower(strings.TrimSpace(p.Category))
	lenderType := strings.ToLower(strings.TrimSpace(p.LenderType))
	secured := securedLabel(p.Secured)

	schemeOrPriority := category == "government scheme" || category == "priority sector" ||
		category == "agriculture" || category == "rural"
	digital := category == "digital lending" || strings.Contains(lenderType, "fintech")

	multiplier := 1.0
	switch riskCategory {
	case "High":
		multiplier -= 0.12
		if secured == "yes" {
			multiplier += 0.20
		}
		if schemeOrPriority {
			multiplier += 0.12
		}
		if digital && secured == "no" {
			multiplier -= 0.18
		}
	case "Medium":
		if secured == "yes" {
			multiplier += 0.08
		}
		if schemeOrPriority {
			multiplier += 0.06
		}
		if digital && secured == "no" {
			multiplier -= 0.08
		}
	default:
		if secured == "yes" {
			multiplier += 0.03
		}
		if digital && secured == "no" {
			multiplier -= 0.03
		}
	}
	return clamp(multiplier, 0.55, 1.30)
}

// recommendedTenure picks a tenure inside the product's band: low-risk
// applicants are steered long, high-risk applicants short.
func recommendedTenure(minMonths, maxMonths int, riskCategory string) int {
	if maxMonths <= minMonths {
		return minMonths
	}
	var tenure int
	switch riskCategory {
	case "Low":
		tenure = int(math.Round(0.25*float64(minMonths) + 0.75*float64(maxMonths)))
	case "Medium":
		tenure = int(math.Round(float64(minMonths+maxMonths) / 2))
	default:
		tenure = int(math.Round(0.65*float64(minMonths) + 0.35*float64(maxMonths)))
	}
	return int(clamp(float64(tenure), float64(minMonths), float64(maxMonths)))
}

// Recommend scores every catalog product for the applicant and returns
// the top options ranked by composite score.
func (cat *LoanCatalog) Recommend(req LoanRecommendationRequest) (LoanRecommendationResponse, error) {
	if len(cat.Products) == 0 {
		return LoanRecommendationResponse{}, ErrEmptyCatalog
	}

	segments := applicantSegments(req.Occupation, req.Purpose)

	type scored struct {
		product LoanProduct
		rate    float64
		tenure  int
		fit     float64
		benefit float64
		segment float64
	}
	rows := make([]scored, 0, len(cat.Products))
	minRate, maxRate := math.MaxFloat64, 0.0
	for _, p := range cat.Products {
		rate := estimateInterestRate(p, req.RiskCategory)
		minTenure, maxTenure := parseTenureMonths(p.TenureYears)
		minAmount, maxAmount := amountRange(p)
		rows = append(rows, scored{
			product: p,
			rate:    rate,
			tenure:  recommendedTenure(minTenure, maxTenure, req.RiskCategory),
			fit:     amountFitScore(req.RequestedAmount, minAmount, maxAmount),
			benefit: benefitScore(p),
			segment: segmentFitScore(p.TargetSegment, segments),
		})
		minRate = math.Min(minRate, rate)
		maxRate = math.Max(maxRate, rate)
	}
	spread := math.Max(maxRate-minRate, 1e-6)

	ranked := make([]LoanOption, 0, len(rows))
	for _, row := range rows {
		lowInterestScore := (maxRate - row.rate) / spread * 100
		adjustedApproval := clamp(req.ApprovalProbability*riskProductMultiplier(row.product, req.RiskCategory), 1.0, 99.5)
		score := adjustedApproval*0.35 +
			lowInterestScore*0.25 +
			row.fit*0.2 +
			row.segment*0.15 +
			row.benefit*0.05

		tenure := row.tenure
		if tenure < 1 {
			tenure = 1
		}
		ranked = append(ranked, LoanOption{
			LenderName: fmt.Sprintf("%s - %s (%s)",
				strings.TrimSpace(row.product.Type),
				strings.TrimSpace(row.product.SubType),
				strings.TrimSpace(row.product.TypicalLenders)),
			LoanScore:                   round2(score),
			EstimatedEMI:                round2(emi(req.RequestedAmount, row.rate, tenure)),
			AnnualInterestRate:          row.rate,
			AnnualTaxSavings:            round2(req.RequestedAmount * (row.benefit / 100) * 0.08),
			AdjustedApprovalProbability: round2(adjustedApproval),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LoanScore > ranked[j].LoanScore
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return LoanRecommendationResponse{BestOption: ranked[0], RankedOptions: ranked}, nil
}
