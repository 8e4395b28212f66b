// Package ledger holds the balance engine: every new entry's running
// balance is derived from the most recently inserted entry, not from a
// full rescan of the book.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/netlink-io/khatabook/internal/database"
	"github.com/shopspring/decimal"
)

// EntryType is the side of the ledger an entry lands on.
type EntryType string

const (
	EntryTypeCredit EntryType = "credit"
	EntryTypeDebit  EntryType = "debit"
)

// dateLayout is the calendar date format used throughout the book.
const dateLayout = "2006-01-02"

// ValidationError describes a rejected dashboard submission. It is
// surfaced to the client as a 400 response instead of reaching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store is the persistence surface the ledger service needs.
type Store interface {
	InsertEntry(ctx context.Context, entry *database.LedgerEntry) error
	ListEntries(ctx context.Context) ([]database.LedgerEntry, error)
	ListEntriesBySequence(ctx context.Context) ([]database.LedgerEntry, error)
	LastEntry(ctx context.Context) (*database.LedgerEntry, error)
	SumCreditsDebits(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
	DeleteEntry(ctx context.Context, id uint) error
}

// Service wraps a Store with balance accounting. The read-last-balance
// then insert step is serialized with a mutex so two concurrent
// submissions cannot both chain off the same predecessor.
type Service struct {
	store Store
	mu    sync.Mutex
}

// New creates a new ledger service.
func New(store Store) *Service {
	return &Service{store: store}
}

// NewEntry is a dashboard submission before validation.
type NewEntry struct {
	Date    string // optional, defaults to today
	Person  string
	Amount  string
	Type    string
	AddedBy string
}

// ComputeBalance returns the running balance after applying a credit
// and a debit to the previous balance.
func ComputeBalance(prev, credit, debit decimal.Decimal) decimal.Decimal {
	return prev.Add(credit).Sub(debit)
}

// AddEntry validates a submission, chains its balance off the last
// inserted entry (zero for an empty ledger) and persists it.
func (s *Service) AddEntry(ctx context.Context, in NewEntry) (*database.LedgerEntry, error) {
	entryDate := in.Date
	if entryDate == "" {
		entryDate = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, entryDate); err != nil {
		return nil, &ValidationError{Field: "entry_date", Reason: "must be YYYY-MM-DD"}
	}

	if in.Person == "" {
		return nil, &ValidationError{Field: "person", Reason: "must not be empty"}
	}

	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Reason: "must be a number"}
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	var credit, debit decimal.Decimal
	switch EntryType(in.Type) {
	case EntryTypeCredit:
		credit, debit = amount, decimal.Zero
	case EntryTypeDebit:
		credit, debit = decimal.Zero, amount
	default:
		return nil, &ValidationError{Field: "type", Reason: "must be credit or debit"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.store.LastEntry(ctx)
	if err != nil {
		return nil, err
	}
	prev := decimal.Zero
	if last != nil {
		prev = last.Balance
	}

	entry := &database.LedgerEntry{
		EntryDate: entryDate,
		Person:    in.Person,
		Credit:    credit,
		Debit:     debit,
		AddedBy:   in.AddedBy,
		Balance:   ComputeBalance(prev, credit, debit),
	}
	if err := s.store.InsertEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Entries returns all entries in display order (entry date descending).
func (s *Service) Entries(ctx context.Context) ([]database.LedgerEntry, error) {
	return s.store.ListEntries(ctx)
}

// EntriesBySequence returns all entries in insertion order.
func (s *Service) EntriesBySequence(ctx context.Context) ([]database.LedgerEntry, error) {
	return s.store.ListEntriesBySequence(ctx)
}

// Totals returns total credit, total debit and the net balance
// (credit minus debit) over the whole book.
func (s *Service) Totals(ctx context.Context) (credit, debit, net decimal.Decimal, err error) {
	credit, debit, err = s.store.SumCreditsDebits(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return credit, debit, credit.Sub(debit), nil
}

// DeleteEntry removes one entry. Balances of the entries that chained
// off it keep their stored values, a known limitation of the book's
// sequential balance model.
func (s *Service) DeleteEntry(ctx context.Context, id uint) error {
	return s.store.DeleteEntry(ctx, id)
}
