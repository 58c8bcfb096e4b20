// Package fields parses date- and amount-shaped tokens. It is shared by
// the column classifier, the normalizer, and the narrative extractor so
// that all three agree on what counts as a date or a number.
package fields

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date patterns commonly seen on bank statements.
var (
	// DD/MM/YYYY, MM/DD/YYYY, DD-MM-YY and friends
	dateNumeric = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	// ISO-ish YYYY-MM-DD or YYYY/MM/DD
	dateISO = regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	// 15 Jan 2024, 15-Jan-24
	dateText = regexp.MustCompile(`(?i)\b\d{1,2}[\s-](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[\s-]\d{2,4}\b`)
)

// amountToken matches signed or plain numbers with optional thousands
// separators.
var amountToken = regexp.MustCompile(`[-+]?\d[\d,]*(?:\.\d+)?`)

// currencyStripper drops currency symbols, separators, and spacing before
// numeric parsing.
var currencyStripper = strings.NewReplacer(
	"£", "", "$", "", "€", "", "₹", "",
	"Rs.", "", "Rs", "", "INR", "",
	",", "", " ", "", " ", "",
	"(", "-", ")", "",
)

// FindDate returns the first date-shaped token in s, or "".
func FindDate(s string) string {
	if m := dateISO.FindString(s); m != "" {
		return m
	}
	if m := dateNumeric.FindString(s); m != "" {
		return m
	}
	return dateText.FindString(s)
}

// FindAmounts returns every amount-shaped token in s, in order.
func FindAmounts(s string) []string {
	return amountToken.FindAllString(s, -1)
}

// LooksLikeDate reports whether the whole cell is date-shaped.
func LooksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return FindDate(s) == s || ParseDate(s) != nil
}

// ParseAmount converts strings like "1,234.56", "-£1,234.56" or "(500)"
// to a decimal. The second return is false when the cell is not
// syntactically numeric; values are never fabricated.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = currencyStripper.Replace(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "-") // trailing-minus convention
	if s == "" || s == "-" || s == "+" || s == "." {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// HasExplicitSign reports whether the raw cell carries its own sign
// marker (leading +/- or accounting parentheses).
func HasExplicitSign(s string) bool {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"£", "$", "€", "₹"} {
		s = strings.TrimPrefix(s, sym)
	}
	return strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") ||
		(strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))
}

// Layouts tried in order. Day-first layouts come before month-first ones,
// matching the statement locales this service sees most.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02/01/06",
	"02-01-06",
	"2 Jan 2006",
	"2 Jan 06",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"2006-01-02T15:04:05",
	"02.01.2006",
}

var monthFirstLayouts = []string{
	"01/02/2006",
	"01-02-2006",
	"01/02/06",
}

// ParseDate parses a calendar date under common formats, returning nil
// when none apply. Day-first is preferred; month-first is the fallback
// for values like 05/25/2024 that day-first cannot represent.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return normalizeYear(t)
		}
	}
	for _, layout := range monthFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return normalizeYear(t)
		}
	}
	return nil
}

// normalizeYear lifts two-digit years parsed into the first century
// (time.Parse maps "06" to year 6, not 2006).
func normalizeYear(t time.Time) *time.Time {
	if t.Year() < 100 {
		year := t.Year() + 2000
		if year > time.Now().Year()+10 {
			year -= 100
		}
		t = time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return &t
}
