package extractor

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestDecodeTextStripsBOM(t *testing.T) {
	got := DecodeText([]byte("\xef\xbb\xbfDate,Amount"))
	if got != "Date,Amount" {
		t.Errorf("got %q, want BOM stripped", got)
	}
}

func TestDecodeTextLatin1Fallback(t *testing.T) {
	// 0xA3 is £ in latin-1 and invalid as a standalone UTF-8 byte.
	got := DecodeText([]byte{'P', 'a', 'i', 'd', ' ', 0xA3, '5'})
	if got != "Paid £5" {
		t.Errorf("got %q, want %q", got, "Paid £5")
	}
}

func TestToLines(t *testing.T) {
	lines := ToLines("first   line\r\n\n  second\tline  \n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].N != 1 || lines[0].Text != "first line" {
		t.Errorf("line 1 = %+v", lines[0])
	}
	if lines[1].N != 3 || lines[1].Text != "second line" {
		t.Errorf("line 2 = %+v", lines[1])
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDocumentDocx(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Paid rent 5000 on 2024-01-05</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Salary credited 30000</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	text, err := ExtractDocument(data)
	if err != nil {
		t.Fatalf("ExtractDocument failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected 2 paragraphs, got %q", text)
	}
	if lines[0] != "Paid rent 5000 on 2024-01-05" {
		t.Errorf("paragraph 1 = %q", lines[0])
	}
	if lines[1] != "Salary credited 30000" {
		t.Errorf("paragraph 2 = %q", lines[1])
	}
}

func TestExtractDocumentDocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("other.txt")
	w.Write([]byte("nothing"))
	zw.Close()

	if _, err := ExtractDocument(buf.Bytes()); err == nil {
		t.Error("expected error for docx without word/document.xml")
	}
}

func TestExtractDocumentLegacySalvage(t *testing.T) {
	raw := append([]byte{0x01, 0x02, 0x03}, []byte("Paid rent 5000")...)
	raw = append(raw, 0x00, 0x7F)
	raw = append(raw, []byte("Salary 30000")...)

	text, err := ExtractDocument(raw)
	if err != nil {
		t.Fatalf("ExtractDocument failed: %v", err)
	}
	if !strings.Contains(text, "Paid rent 5000") || !strings.Contains(text, "Salary 30000") {
		t.Errorf("salvaged text missing content: %q", text)
	}
}

func TestExtractPDFGarbageFails(t *testing.T) {
	if _, err := ExtractPDF([]byte("%PDF-1.7 not really a pdf")); err == nil {
		t.Error("expected error for malformed pdf")
	}
}
