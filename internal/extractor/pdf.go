package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the text of each page in order. It tries row-grouped
// extraction first and falls back to plain-text extraction, gating each
// result on a readability check so binary garbage from exotic font
// encodings is never handed to the narrative path.
func ExtractPDF(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	r, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		return nil, fmt.Errorf("open pdf: %w", openErr)
	}
	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByPagePlainText(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	if text := extractByReaderPlainText(r); isReadableText([]string{text}) {
		return []string{text}, nil
	}

	return nil, fmt.Errorf("no readable text could be extracted; the PDF may be image-based or use custom font encodings")
}

// extractByRow groups text by row for the best layout preservation.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fontNames := page.Fonts()
		fonts := make(map[string]*pdf.Font, len(fontNames))
		for _, name := range fontNames {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// textQuality returns the ratio of readable characters to total. A strict
// ASCII-leaning check: identity-encoded fonts produce accented garbage
// that unicode.IsLetter would wrongly accept.
func textQuality(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"%&@#!?+=*`, r) ||
				r == '£' || r == '$' || r == '€' || r == '₹' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func isReadableText(pages []string) bool {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n > 50 && textQuality(pages) > 0.6
}
