package advisor

import (
	"math"
	"strings"
)

// IntentResponse is the classified intent of a transcribed utterance.
type IntentResponse struct {
	Intent          string   `json:"intent"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// intentVocab is ordered so ties resolve deterministically.
var intentVocab = []struct {
	intent   string
	keywords []string
}{
	{"loan_application", []string{"loan", "borrow", "emi", "interest", "credit"}},
	{"tax_help", []string{"tax", "deduction", "80c", "80d", "return"}},
	{"budget_tracking", []string{"budget", "expense", "spending", "save money"}},
	{"insurance_query", []string{"insurance", "health cover", "life cover", "policy"}},
}

// ClassifyIntent matches keyword vocabularies against the utterance and
// returns the intent with the most hits, defaulting to general_query.
func ClassifyIntent(text string) IntentResponse {
	lower := strings.ToLower(text)
	best := "general_query"
	var bestKeywords []string

	for _, candidate := range intentVocab {
		var matched []string
		for _, kw := range candidate.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > len(bestKeywords) {
			best = candidate.intent
			bestKeywords = matched
		}
	}

	confidence := 0.2
	if len(bestKeywords) > 0 {
		confidence = math.Min(0.4+0.15*float64(len(bestKeywords)), 0.95)
	}
	return IntentResponse{
		Intent:          best,
		Confidence:      round2(confidence),
		MatchedKeywords: bestKeywords,
	}
}
