// Package sniffer selects a parsing strategy for an uploaded document from
// its extension and, when that is ambiguous, its content signature.
package sniffer

import (
	"bytes"
	"strings"

	"github.com/finaware/statement-analyzer/internal/models"
)

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04")
	// Compound File Binary signature shared by legacy .xls and .doc.
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect never fails: unrecognized content routes to plain_text, the
// universal fallback.
func Detect(doc models.RawDocument) models.Format {
	switch doc.Ext() {
	case "csv":
		return models.FormatCSV
	case "tsv":
		return models.FormatTSV
	case "xlsx", "xls":
		return models.FormatSpreadsheet
	case "pdf":
		return models.FormatPDF
	case "doc", "docx":
		return models.FormatDocument
	case "json":
		return models.FormatJSON
	case "xml":
		return models.FormatXML
	case "txt":
		return models.FormatPlainText
	}
	return sniffContent(doc.Data)
}

func sniffContent(data []byte) models.Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) == 0 {
		return models.FormatPlainText
	}

	switch {
	case bytes.HasPrefix(trimmed, pdfMagic):
		return models.FormatPDF
	case bytes.HasPrefix(data, zipMagic):
		// Both xlsx and docx are zip containers; docx carries word/ parts.
		probe := data
		if len(probe) > 4096 {
			probe = probe[:4096]
		}
		if bytes.Contains(probe, []byte("word/")) {
			return models.FormatDocument
		}
		return models.FormatSpreadsheet
	case bytes.HasPrefix(data, oleMagic):
		// Ambiguous between .xls and .doc; the spreadsheet parser falls
		// back to the narrative path if the workbook fails to open.
		return models.FormatSpreadsheet
	case trimmed[0] == '{' || trimmed[0] == '[':
		return models.FormatJSON
	case trimmed[0] == '<':
		return models.FormatXML
	}

	return sniffDelimited(string(trimmed))
}

// sniffDelimited inspects the first non-empty line: whichever of tab or
// comma occurs more often wins. Neither present means plain text.
func sniffDelimited(text string) models.Format {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		commas := strings.Count(line, ",")
		tabs := strings.Count(line, "\t")
		switch {
		case tabs > 0 && tabs >= commas:
			return models.FormatTSV
		case commas > 0:
			return models.FormatCSV
		}
		break
	}
	return models.FormatPlainText
}
