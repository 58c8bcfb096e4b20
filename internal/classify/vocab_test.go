package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/finaware/statement-analyzer/internal/models"
)

func TestLoadVocabularyMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := "date:\n  - fecha\n  - datum\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write vocab file: %v", err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}

	dates := vocab[models.RoleDate]
	if len(dates) != 2 || dates[0] != "fecha" {
		t.Errorf("date keywords = %v, want override applied", dates)
	}
	// Roles absent from the file keep their defaults.
	if len(vocab[models.RoleBalance]) == 0 {
		t.Error("balance keywords lost during merge")
	}
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	vocab, err := LoadVocabulary("/nonexistent/vocab.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
	// Defaults still usable for graceful startup.
	if len(vocab[models.RoleDate]) == 0 {
		t.Error("expected defaults returned alongside the error")
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Txn Date", "txndate"},
		{"Dr/Cr", "drcr"},
		{"  Balance  ", "balance"},
		{"-- --", ""},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
