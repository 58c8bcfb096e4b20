package fields

import (
	"testing"
	"time"
)

func TestFindDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Paid rent on 2024-01-05 morning", "2024-01-05"},
		{"txn 15/01/2024 ref 99", "15/01/2024"},
		{"on 15 Jan 2024 received", "15 Jan 2024"},
		{"no dates here", ""},
	}
	for _, tt := range tests {
		if got := FindDate(tt.in); got != tt.want {
			t.Errorf("FindDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,234.56", "1234.56", true},
		{"-£1,234.56", "-1234.56", true},
		{"(500)", "-500", true},
		{"₹ 2,500", "2500", true},
		{"Rs. 100.50", "100.5", true},
		{"+300", "300", true},
		{"", "", false},
		{"-", "", false},
		{"N/A", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseAmount(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestHasExplicitSign(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"-500", true},
		{"+500", true},
		{"(500)", true},
		{"£-500", true},
		{"500", false},
		{"£500", false},
	}
	for _, tt := range tests {
		if got := HasExplicitSign(tt.in); got != tt.want {
			t.Errorf("HasExplicitSign(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-05", "2024-01-05"},
		{"05/01/2024", "2024-01-05"}, // day-first preferred
		{"5 Jan 2024", "2024-01-05"},
		{"05-01-24", "2024-01-05"},
		{"01.02.2024", "2024-02-01"},
		{"05/25/2024", "2024-05-25"}, // month-first fallback
	}
	for _, tt := range tests {
		got := ParseDate(tt.in)
		if got == nil {
			t.Errorf("ParseDate(%q) = nil, want %s", tt.in, tt.want)
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
	}

	if ParseDate("not a date") != nil {
		t.Error("expected nil for unparseable input")
	}
}

func TestParseDateTwoDigitYear(t *testing.T) {
	got := ParseDate("15/06/23")
	if got == nil {
		t.Fatal("expected a parsed date")
	}
	if got.Year() != 2023 || got.Month() != time.June || got.Day() != 15 {
		t.Errorf("got %s, want 2023-06-15", got.Format("2006-01-02"))
	}
}

func TestLooksLikeDate(t *testing.T) {
	if !LooksLikeDate("2024-01-05") {
		t.Error("ISO date should look like a date")
	}
	if !LooksLikeDate("15 Jan 2024") {
		t.Error("textual date should look like a date")
	}
	if LooksLikeDate("1234.56") {
		t.Error("plain number should not look like a date")
	}
	if LooksLikeDate("Grocery Store") {
		t.Error("text should not look like a date")
	}
}
