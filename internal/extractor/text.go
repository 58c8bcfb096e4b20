// Package extractor reduces PDF, word-processor, and plain-text documents
// to ordered text lines for the narrative path.
package extractor

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/finaware/statement-analyzer/internal/models"
)

// DecodeText turns raw bytes into a string, stripping a UTF-8 BOM and
// falling back to a latin-1 interpretation for invalid UTF-8.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// ToLines splits text into ordered RawLines, collapsing consecutive
// whitespace within each line and skipping blank lines. Ordinals are the
// original one-based line numbers.
func ToLines(text string) []models.RawLine {
	var lines []models.RawLine
	for i, raw := range strings.Split(text, "\n") {
		line := collapseSpaces(strings.TrimSpace(strings.TrimSuffix(raw, "\r")))
		if line == "" {
			continue
		}
		lines = append(lines, models.RawLine{N: i + 1, Text: line})
	}
	return lines
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
