package classify

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/finaware/statement-analyzer/internal/models"
)

// Vocabulary maps a column role to the header keywords (case-insensitive
// substrings, compared after normalization) that identify it.
type Vocabulary map[models.ColumnRole][]string

// DefaultVocabulary returns the built-in role keyword sets.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		models.RoleDate:         {"date", "txndate", "valuedate", "postdate", "transactiondate"},
		models.RoleType:         {"drcr", "debitcredit", "transtype", "type"},
		models.RoleDebit:        {"debit", "withdrawal", "withdraw", "dramount", "dr"},
		models.RoleCredit:       {"credit", "deposit", "cramount", "cr"},
		models.RoleBalance:      {"balance", "closingbalance", "runningbal", "closingbal", "availbal", "bal"},
		models.RoleNarration:    {"narration", "description", "particulars", "details", "remarks", "merchant", "note"},
		models.RoleAmountSigned: {"amount", "txnamount", "transactionamount", "amt"},
	}
}

// LoadVocabulary merges role keyword overrides from a YAML file over the
// defaults. Roles absent from the file keep their built-in keywords.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return vocab, fmt.Errorf("read vocabulary file: %w", err)
	}
	var overrides map[string][]string
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return vocab, fmt.Errorf("parse vocabulary file: %w", err)
	}
	for role, keywords := range overrides {
		normalized := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			if kw = normalizeHeader(kw); kw != "" {
				normalized = append(normalized, kw)
			}
		}
		if len(normalized) > 0 {
			vocab[models.ColumnRole(role)] = normalized
		}
	}
	return vocab, nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeader lowercases a header and strips everything that is not a
// letter or digit, so "Dr/Cr" and "Txn Date" compare cleanly.
func normalizeHeader(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}
