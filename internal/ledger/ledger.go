// Package ledger keeps a per-user daily cash ledger in memory, tracking
// inflows and outflows with running day balances.
package ledger

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry types.
const (
	TypeInflow  = "inflow"
	TypeOutflow = "outflow"
)

var (
	ErrEmptyUserID   = errors.New("user_id cannot be empty")
	ErrInvalidType   = errors.New("entry_type must be inflow or outflow")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Entry is one recorded cash movement.
type Entry struct {
	EntryID     string          `json:"entry_id"`
	UserID      string          `json:"user_id"`
	EntryDate   string          `json:"entry_date"` // YYYY-MM-DD
	EntryType   string          `json:"entry_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DaySummary aggregates one user's entries for a single day.
type DaySummary struct {
	UserID           string          `json:"user_id"`
	EntryDate        string          `json:"entry_date"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	TotalInflow      decimal.Decimal `json:"total_inflow"`
	TotalOutflow     decimal.Decimal `json:"total_outflow"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	TransactionCount int             `json:"transaction_count"`
}

// Report is a user's full ledger view, optionally date-filtered.
type Report struct {
	UserID         string          `json:"user_id"`
	Entries        []Entry         `json:"entries"`
	DailySummaries []DaySummary    `json:"daily_summaries"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// Store is an in-memory ledger, safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewStore returns an empty ledger.
func NewStore() *Store {
	return &Store{}
}

// Add validates and records one entry, returning it together with the
// updated summary for its day.
func (s *Store) Add(userID, entryDate, entryType, description string, amount decimal.Decimal) (Entry, DaySummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Entry{}, DaySummary{}, ErrEmptyUserID
	}
	if entryType != TypeInflow && entryType != TypeOutflow {
		return Entry{}, DaySummary{}, ErrInvalidType
	}
	if !amount.IsPositive() {
		return Entry{}, DaySummary{}, ErrInvalidAmount
	}
	if _, err := time.Parse("2006-01-02", entryDate); err != nil {
		return Entry{}, DaySummary{}, err
	}

	entry := Entry{
		EntryID:     uuid.NewString(),
		UserID:      userID,
		EntryDate:   entryDate,
		EntryType:   entryType,
		Amount:      amount.Round(2),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	summary := s.DaySummary(userID, entryDate)
	return entry, summary, nil
}

// Report returns the user's entries and day summaries. Date bounds are
// inclusive; empty strings mean unbounded. The current balance always
// reflects the full history regardless of the filter.
func (s *Store) Report(userID, startDate, endDate string) (Report, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Report{}, ErrEmptyUserID
	}

	entries := s.userEntries(userID)
	summaries := daySummaries(userID, entries)

	current := decimal.Zero
	if len(summaries) > 0 {
		current = summaries[len(summaries)-1].ClosingBalance
	}

	if startDate != "" {
		entries = filterEntries(entries, func(e Entry) bool { return e.EntryDate >= startDate })
		summaries = filterSummaries(summaries, func(d DaySummary) bool { return d.EntryDate >= startDate })
	}
	if endDate != "" {
		entries = filterEntries(entries, func(e Entry) bool { return e.EntryDate <= endDate })
		summaries = filterSummaries(summaries, func(d DaySummary) bool { return d.EntryDate <= endDate })
	}

	return Report{
		UserID:         userID,
		Entries:        entries,
		DailySummaries: summaries,
		CurrentBalance: current,
	}, nil
}

// DaySummary returns the summary for one day. Days with no entries get
// a zero-movement summary opening at the prior day's close.
func (s *Store) DaySummary(userID, entryDate string) DaySummary {
	entries := s.userEntries(userID)
	summaries := daySummaries(userID, entries)

	opening := decimal.Zero
	for _, day := range summaries {
		if day.EntryDate == entryDate {
			return day
		}
		if day.EntryDate < entryDate {
			opening = day.ClosingBalance
		}
	}
	return DaySummary{
		UserID:         userID,
		EntryDate:      entryDate,
		OpeningBalance: opening,
		TotalInflow:    decimal.Zero,
		TotalOutflow:   decimal.Zero,
		ClosingBalance: opening,
	}
}

// userEntries copies one user's entries sorted by date, then creation
// time, then id for a stable order.
func (s *Store) userEntries(userID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryDate != out[j].EntryDate {
			return out[i].EntryDate < out[j].EntryDate
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out
}

func daySummaries(userID string, entries []Entry) []DaySummary {
	var summaries []DaySummary
	running := decimal.Zero

	i := 0
	for i < len(entries) {
		day := entries[i].EntryDate
		inflow, outflow := decimal.Zero, decimal.Zero
		count := 0
		for i < len(entries) && entries[i].EntryDate == day {
			if entries[i].EntryType == TypeInflow {
				inflow = inflow.Add(entries[i].Amount)
			} else {
				outflow = outflow.Add(entries[i].Amount)
			}
			count++
			i++
		}
		closing := running.Add(inflow).Sub(outflow)
		summaries = append(summaries, DaySummary{
			UserID:           userID,
			EntryDate:        day,
			OpeningBalance:   running,
			TotalInflow:      inflow,
			TotalOutflow:     outflow,
			ClosingBalance:   closing,
			TransactionCount: count,
		})
		running = closing
	}
	return summaries
}

func filterEntries(entries []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func filterSummaries(summaries []DaySummary, keep func(DaySummary) bool) []DaySummary {
	var out []DaySummary
	for _, d := range summaries {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
