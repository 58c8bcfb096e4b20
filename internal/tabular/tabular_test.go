package tabular

import (
	"errors"
	"testing"

	"github.com/finaware/statement-analyzer/internal/models"
)

func TestParseDelimitedWithHeader(t *testing.T) {
	text := "Date,Description,Amount\n2024-01-05,Rent,-5000\n2024-01-01,Salary,30000\n"

	table, _, err := ParseDelimited(text)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if !table.HasHeader {
		t.Error("expected header to be detected")
	}
	if table.Width() != 3 {
		t.Errorf("expected 3 columns, got %d", table.Width())
	}
	if len(table.Rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(table.Rows))
	}
	if table.Header[1] != "Description" {
		t.Errorf("expected Description header, got %q", table.Header[1])
	}
}

func TestParseDelimitedHeaderless(t *testing.T) {
	// First row holds a purely numeric cell, so it is data, not header.
	text := "2024-01-05,Rent,-5000\n2024-01-01,Salary,30000\n"

	table, _, err := ParseDelimited(text)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if table.HasHeader {
		t.Error("expected headerless table")
	}
	if len(table.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestParseDelimitedDropsMismatchedRows(t *testing.T) {
	text := "Date,Description,Amount\n2024-01-05,Rent,-5000\nshort,row\n2024-01-01,Salary,30000\n"

	table, _, err := ParseDelimited(text)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Errorf("expected 2 surviving rows, got %d", len(table.Rows))
	}
	if table.Dropped != 1 {
		t.Errorf("expected 1 dropped row, got %d", table.Dropped)
	}
}

func TestParseDelimitedTabSeparated(t *testing.T) {
	text := "Date\tAmount\n2024-01-05\t-5000\n"

	table, _, err := ParseDelimited(text)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if table.Width() != 2 {
		t.Errorf("expected 2 columns, got %d", table.Width())
	}
}

func TestParseDelimitedNoDelimiter(t *testing.T) {
	_, salvage, err := ParseDelimited("just a paragraph of prose without structure\n")
	if !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
	if salvage == "" {
		t.Error("expected salvage text for the narrative path")
	}
}

func TestParseJSONArrayOfObjects(t *testing.T) {
	doc := models.RawDocument{
		Filename: "stmt.json",
		Data:     []byte(`[{"date":"2024-01-05","amount":-5000,"desc":"Rent"},{"date":"2024-01-01","amount":30000,"desc":"Salary"}]`),
	}

	table, _, err := Parse(doc, models.FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// Sorted key union: amount, date, desc.
	want := []string{"amount", "date", "desc"}
	for i, h := range want {
		if table.Header[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table.Header[i], h)
		}
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][0] != "-5000" {
		t.Errorf("expected amount -5000, got %q", table.Rows[0][0])
	}
}

func TestParseJSONWrappedArray(t *testing.T) {
	doc := models.RawDocument{
		Filename: "stmt.json",
		Data:     []byte(`{"account":"123","transactions":[{"date":"2024-01-01","amount":100}]}`),
	}

	table, _, err := Parse(doc, models.FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(table.Rows))
	}
}

func TestParseJSONScalarFallsBack(t *testing.T) {
	doc := models.RawDocument{Filename: "stmt.json", Data: []byte(`"just a string"`)}

	_, salvage, err := Parse(doc, models.FormatJSON)
	if !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
	if salvage == "" {
		t.Error("expected salvage text")
	}
}

func TestParseXMLRepeatedElements(t *testing.T) {
	doc := models.RawDocument{
		Filename: "stmt.xml",
		Data: []byte(`<statement>
			<txn><date>2024-01-05</date><amount>-5000</amount><desc>Rent</desc></txn>
			<txn><date>2024-01-01</date><amount>30000</amount><desc>Salary</desc></txn>
		</statement>`),
	}

	table, _, err := Parse(doc, models.FormatXML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Width() != 3 {
		t.Errorf("expected 3 columns, got %d", table.Width())
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[1][1] != "30000" {
		t.Errorf("expected amount 30000, got %q", table.Rows[1][1])
	}
}

func TestParseXMLAttributes(t *testing.T) {
	doc := models.RawDocument{
		Filename: "stmt.xml",
		Data:     []byte(`<stmt><t date="2024-01-01" amount="100"/><t date="2024-01-02" amount="-50"/></stmt>`),
	}

	table, _, err := Parse(doc, models.FormatXML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Header[0] != "date" || table.Header[1] != "amount" {
		t.Errorf("unexpected header order: %v", table.Header)
	}
	if table.Rows[1][1] != "-50" {
		t.Errorf("expected -50, got %q", table.Rows[1][1])
	}
}

func TestParseXMLMalformedFallsBack(t *testing.T) {
	doc := models.RawDocument{Filename: "stmt.xml", Data: []byte(`<<<not xml at all`)}

	_, _, err := Parse(doc, models.FormatXML)
	if !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
}
