package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ExtractDocument reduces a word-processor document to plain text with
// paragraph order preserved. Modern .docx is a zip container holding
// word/document.xml; legacy .doc binaries are salvaged by collecting
// printable runs, which feeds the narrative path.
func ExtractDocument(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return extractDocx(data)
	}
	if text := salvagePrintable(data); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("no text could be recovered from document")
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx container: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		text := paragraphEnd.ReplaceAllString(string(raw), "\n")
		text = xmlTag.ReplaceAllString(text, "")
		return unescapeXML(text), nil
	}
	return "", fmt.Errorf("docx container has no word/document.xml")
}

func unescapeXML(s string) string {
	r := strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">",
		"&quot;", `"`, "&apos;", "'",
	)
	return r.Replace(s)
}

// salvagePrintable collects printable runs of at least four characters
// from a binary payload. Best effort only; short runs are overwhelmingly
// format noise.
func salvagePrintable(data []byte) string {
	var lines []string
	var run []byte
	flush := func() {
		if len(run) >= 4 {
			lines = append(lines, strings.TrimSpace(string(run)))
		}
		run = run[:0]
	}
	for _, b := range data {
		if b == '\r' || b == '\n' {
			flush()
			continue
		}
		if b == '\t' || (b >= 0x20 && b < 0x7F) {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(lines, "\n")
}
