package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Format identifies the parsing strategy selected for an upload.
type Format string

const (
	FormatCSV         Format = "csv"
	FormatTSV         Format = "tsv"
	FormatSpreadsheet Format = "spreadsheet"
	FormatPDF         Format = "pdf"
	FormatDocument    Format = "document"
	FormatPlainText   Format = "plain_text"
	FormatJSON        Format = "json"
	FormatXML         Format = "xml"
)

// RawDocument is one uploaded statement. It lives for the duration of a
// single analysis request and is never persisted.
type RawDocument struct {
	Filename string
	Data     []byte
}

// Ext returns the lowercase filename extension without the leading dot.
func (d RawDocument) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Filename)), ".")
}

// ParsedTable is a rectangular table recovered by a structural parser.
// Every row has exactly len(Header) cells; rows that arrived with a
// different cell count are dropped and counted in Dropped.
type ParsedTable struct {
	Header    []string
	HasHeader bool
	Rows      [][]string
	Dropped   int
}

// Width returns the column count of the table.
func (t *ParsedTable) Width() int { return len(t.Header) }

// ColumnRole is the semantic role assigned to a table column.
type ColumnRole string

const (
	RoleDate         ColumnRole = "date"
	RoleAmountSigned ColumnRole = "amount_signed"
	RoleDebit        ColumnRole = "debit"
	RoleCredit       ColumnRole = "credit"
	RoleBalance      ColumnRole = "balance"
	RoleType         ColumnRole = "type"
	RoleNarration    ColumnRole = "narration"
	RoleIgnored      ColumnRole = "ignored"
)

// RawLine is a single line of extracted text. N is the original ordinal;
// ordering matters for narrative extraction.
type RawLine struct {
	N    int
	Text string
}

// Transaction is the canonical normalized record. Amount is signed:
// credits are positive, debits negative. Date and BalanceAfter are nil
// when they could not be recovered. Transactions are never mutated after
// creation and are emitted in document order.
type Transaction struct {
	Date         *time.Time
	Amount       decimal.Decimal
	BalanceAfter *decimal.Decimal
	Description  string
}

// StatementSummary holds the three aggregate metrics consumed by the
// risk engine. All fields are finite and non-negative.
type StatementSummary struct {
	MonthlyIncomeEstimate  float64 `json:"monthly_income_estimate"`
	MonthlyExpenseEstimate float64 `json:"monthly_expense_estimate"`
	AvgMonthlyBalance      float64 `json:"avg_monthly_balance"`
}

// ParsePath records which branch of the pipeline produced the result.
type ParsePath string

const (
	PathTable     ParsePath = "table"
	PathNarrative ParsePath = "narrative"
	PathEmpty     ParsePath = "empty"
)

// AnalysisResult is the full outcome of one pipeline invocation.
type AnalysisResult struct {
	Format       Format
	Path         ParsePath
	Summary      StatementSummary
	Transactions []Transaction
	Confidence   float64
	Quality      string
}
