package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry represents one credit or debit transaction together with
// the running balance after it. The autoincrement ID doubles as the
// insertion sequence number: the balance chain follows the highest ID,
// never the entry date, so display order and accumulation order are
// allowed to differ.
type LedgerEntry struct {
	ID        uint            `gorm:"primaryKey"`
	EntryDate string          `gorm:"not null"` // YYYY-MM-DD
	Person    string          `gorm:"not null"`
	Credit    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Debit     decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	AddedBy   string          `gorm:"not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
}

// InsertEntry appends a new ledger row. The balance must already be
// computed by the caller.
func (d *DB) InsertEntry(ctx context.Context, entry *LedgerEntry) error {
	if err := d.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Error("failed to insert ledger entry", "error", err)
		return err
	}
	return nil
}

// ListEntries returns all entries ordered by entry date descending.
// This ordering is for display only and is independent of the balance
// chain, which follows insertion order.
func (d *DB) ListEntries(ctx context.Context) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	if err := d.db.WithContext(ctx).
		Order("entry_date DESC, id DESC").
		Find(&entries).Error; err != nil {
		log.Error("failed to list ledger entries", "error", err)
		return nil, err
	}
	return entries, nil
}

// ListEntriesBySequence returns all entries in insertion order, the
// order their balances were accumulated in. The PDF report uses this
// so the balance column reads as a chain.
func (d *DB) ListEntriesBySequence(ctx context.Context) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		log.Error("failed to list ledger entries", "error", err)
		return nil, err
	}
	return entries, nil
}

// LastEntry returns the most recently inserted entry (highest ID), or
// nil if the ledger is empty.
func (d *DB) LastEntry(ctx context.Context) (*LedgerEntry, error) {
	var entry LedgerEntry
	err := d.db.WithContext(ctx).Order("id DESC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get last ledger entry", "error", err)
		return nil, err
	}
	return &entry, nil
}

// SumCreditsDebits returns the totals of all credits and debits.
// An empty ledger yields zero for both. The summation happens in Go
// with decimal arithmetic so no float rounding sneaks in through the
// sqlite SUM aggregate.
func (d *DB) SumCreditsDebits(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var rows []LedgerEntry
	if err := d.db.WithContext(ctx).Select("credit", "debit").Find(&rows).Error; err != nil {
		log.Error("failed to sum ledger entries", "error", err)
		return decimal.Zero, decimal.Zero, err
	}

	totalCredit := decimal.Zero
	totalDebit := decimal.Zero
	for _, row := range rows {
		totalCredit = totalCredit.Add(row.Credit)
		totalDebit = totalDebit.Add(row.Debit)
	}
	return totalCredit, totalDebit, nil
}

// DeleteEntry removes one row by ID. Deleting a nonexistent entry is a
// no-op. Balances of the remaining entries are deliberately not
// recomputed, matching the documented ledger semantics.
func (d *DB) DeleteEntry(ctx context.Context, id uint) error {
	if err := d.db.WithContext(ctx).Delete(&LedgerEntry{}, id).Error; err != nil {
		log.Error("failed to delete ledger entry", "error", err, "id", id)
		return err
	}
	return nil
}
