// Package classify assigns a semantic role to each column of a parsed
// table. The heuristics run as an explicitly ordered predicate list:
// header-keyword evidence always outranks value-shape evidence, and the
// amount_signed / debit+credit forms are mutually exclusive with the
// first pattern found winning.
package classify

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finaware/statement-analyzer/internal/fields"
	"github.com/finaware/statement-analyzer/internal/models"
)

// ErrNoUsableTable means the table yielded neither a date column nor an
// amount-bearing column; the caller rejects it to the narrative path.
var ErrNoUsableTable = errors.New("table has no date or amount-bearing column")

// Classification is the role assignment for a table. Index fields are -1
// when the role was not found.
type Classification struct {
	Roles     []models.ColumnRole
	Date      int
	Amount    int
	Debit     int
	Credit    int
	Balance   int
	Type      int
	Narration int
}

// shapeSampleSize caps how many rows value-shape inference looks at.
const shapeSampleSize = 20

// shapeThreshold is the fraction of sampled values that must parse for a
// column to qualify as a shape candidate.
const shapeThreshold = 0.7

// headerPriority is the order header keywords are tested per column.
// Narration precedes debit/credit so that the "cr" shorthand inside
// "description" cannot misfire; type precedes debit so "Dr/Cr" headers
// land on type.
var headerPriority = []models.ColumnRole{
	models.RoleDate,
	models.RoleType,
	models.RoleNarration,
	models.RoleBalance,
	models.RoleDebit,
	models.RoleCredit,
	models.RoleAmountSigned,
}

// Classify runs the ordered heuristics over the table.
func Classify(t *models.ParsedTable, vocab Vocabulary) (*Classification, error) {
	c := &Classification{
		Roles:  make([]models.ColumnRole, t.Width()),
		Date:   -1, Amount: -1, Debit: -1, Credit: -1,
		Balance: -1, Type: -1, Narration: -1,
	}
	for i := range c.Roles {
		c.Roles[i] = models.RoleIgnored
	}

	if t.HasHeader {
		c.headerPass(t, vocab)
		c.resolveForm()
	}
	c.shapePass(t)

	if c.Date == -1 && c.Amount == -1 && c.Debit == -1 && c.Credit == -1 {
		return nil, ErrNoUsableTable
	}
	return c, nil
}

func (c *Classification) headerPass(t *models.ParsedTable, vocab Vocabulary) {
	for col, header := range t.Header {
		norm := normalizeHeader(header)
		if norm == "" {
			continue
		}
		for _, role := range headerPriority {
			if !matchesVocab(norm, vocab[role]) {
				continue
			}
			if c.index(role) == -1 {
				c.assign(col, role)
			}
			break
		}
	}
}

func matchesVocab(norm string, keywords []string) bool {
	for _, kw := range keywords {
		if kw = normalizeHeader(kw); kw != "" && strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

// resolveForm enforces amount_signed XOR debit/credit. Whichever pattern
// completes first (by column position) wins; the other is demoted to
// ignored.
func (c *Classification) resolveForm() {
	pairComplete := c.Debit != -1 && c.Credit != -1
	switch {
	case c.Amount != -1 && pairComplete:
		second := c.Debit
		if c.Credit > second {
			second = c.Credit
		}
		if c.Amount < second {
			c.demotePair()
		} else {
			c.demoteAmount()
		}
	case c.Amount != -1 && !pairComplete:
		// Amount pattern complete; a lone debit or credit column is noise.
		c.demotePair()
	}
}

func (c *Classification) demotePair() {
	if c.Debit != -1 {
		c.Roles[c.Debit] = models.RoleIgnored
		c.Debit = -1
	}
	if c.Credit != -1 {
		c.Roles[c.Credit] = models.RoleIgnored
		c.Credit = -1
	}
}

func (c *Classification) demoteAmount() {
	c.Roles[c.Amount] = models.RoleIgnored
	c.Amount = -1
}

// shapePass fills still-missing roles from sampled value shapes. Header
// assignments are never overridden.
func (c *Classification) shapePass(t *models.ParsedTable) {
	stats := sampleColumns(t, c)

	// Date: leftmost date-shaped column, matching its typical position.
	if c.Date == -1 {
		for col, s := range stats {
			if c.Roles[col] == models.RoleIgnored && s.qualifiesDate() {
				c.assign(col, models.RoleDate)
				break
			}
		}
	}

	// Balance: a systematically increasing or decreasing numeric column
	// is preferred as balance over amount; rightmost wins.
	if c.Balance == -1 {
		for col := len(stats) - 1; col >= 0; col-- {
			if c.Roles[col] == models.RoleIgnored && stats[col].qualifiesNumber() && stats[col].monotonic {
				c.assign(col, models.RoleBalance)
				break
			}
		}
	}

	// Amount: only when no amount-bearing form exists yet; rightmost
	// remaining numeric column, matching its typical position.
	if c.Amount == -1 && c.Debit == -1 && c.Credit == -1 {
		for col := len(stats) - 1; col >= 0; col-- {
			if c.Roles[col] == models.RoleIgnored && stats[col].qualifiesNumber() {
				c.assign(col, models.RoleAmountSigned)
				break
			}
		}
	}

	// Narration: leftmost mostly-textual column. Not part of the reject
	// decision, purely to keep descriptions for downstream clustering.
	if c.Narration == -1 {
		for col, s := range stats {
			if c.Roles[col] == models.RoleIgnored && s.qualifiesText() {
				c.assign(col, models.RoleNarration)
				break
			}
		}
	}
}

type columnStats struct {
	sampled   int
	dates     int
	numbers   int
	texts     int
	monotonic bool
}

func (s columnStats) qualifiesDate() bool {
	return s.sampled > 0 && float64(s.dates)/float64(s.sampled) >= shapeThreshold
}

func (s columnStats) qualifiesNumber() bool {
	return s.sampled > 0 && float64(s.numbers)/float64(s.sampled) >= shapeThreshold
}

func (s columnStats) qualifiesText() bool {
	return s.sampled > 0 && float64(s.texts)/float64(s.sampled) >= shapeThreshold
}

func sampleColumns(t *models.ParsedTable, c *Classification) []columnStats {
	stats := make([]columnStats, t.Width())
	values := make([][]decimal.Decimal, t.Width())

	limit := len(t.Rows)
	if limit > shapeSampleSize {
		limit = shapeSampleSize
	}
	for _, row := range t.Rows[:limit] {
		for col, cell := range row {
			if cell == "" {
				continue
			}
			s := &stats[col]
			s.sampled++
			isDate := fields.LooksLikeDate(cell)
			if isDate {
				s.dates++
			}
			if d, ok := fields.ParseAmount(cell); ok && !isDate {
				s.numbers++
				values[col] = append(values[col], d)
			} else if !isDate {
				s.texts++
			}
		}
	}
	for col := range stats {
		stats[col].monotonic = isMonotonic(values[col])
	}
	return stats
}

// isMonotonic reports whether the sequence moves systematically in one
// direction. Equal neighbors are tolerated; constant columns are not
// monotonic.
func isMonotonic(vals []decimal.Decimal) bool {
	if len(vals) < 3 || vals[0].Equal(vals[len(vals)-1]) {
		return false
	}
	rising := vals[len(vals)-1].GreaterThan(vals[0])
	for i := 1; i < len(vals); i++ {
		if rising && vals[i].LessThan(vals[i-1]) {
			return false
		}
		if !rising && vals[i].GreaterThan(vals[i-1]) {
			return false
		}
	}
	return true
}

func (c *Classification) assign(col int, role models.ColumnRole) {
	c.Roles[col] = role
	switch role {
	case models.RoleDate:
		c.Date = col
	case models.RoleAmountSigned:
		c.Amount = col
	case models.RoleDebit:
		c.Debit = col
	case models.RoleCredit:
		c.Credit = col
	case models.RoleBalance:
		c.Balance = col
	case models.RoleType:
		c.Type = col
	case models.RoleNarration:
		c.Narration = col
	}
}

func (c *Classification) index(role models.ColumnRole) int {
	switch role {
	case models.RoleDate:
		return c.Date
	case models.RoleAmountSigned:
		return c.Amount
	case models.RoleDebit:
		return c.Debit
	case models.RoleCredit:
		return c.Credit
	case models.RoleBalance:
		return c.Balance
	case models.RoleType:
		return c.Type
	case models.RoleNarration:
		return c.Narration
	}
	return -1
}
