package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "draft"
	EntryStatusPosted EntryStatus = "posted"
)

// JournalEntry is a transaction header owning an ordered set of lines.
// Drafts may be saved unbalanced; a posted entry must have equal debit and
// credit totals and is treated as immutable by convention.
type JournalEntry struct {
	Base
	Date        time.Time   `gorm:"type:date;not null;index" json:"date"`
	Description string      `gorm:"size:200;not null" json:"description"`
	Status      EntryStatus `gorm:"size:10;not null;default:'draft';index" json:"status"`
	CreatedBy   *string     `gorm:"size:120" json:"created_by,omitempty"`

	Lines []JournalLine `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"lines"`
}

// TotalDebit sums the debit amounts of the loaded lines.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Lines {
		total = total.Add(e.Lines[i].Debit)
	}
	return total
}

// TotalCredit sums the credit amounts of the loaded lines.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Lines {
		total = total.Add(e.Lines[i].Credit)
	}
	return total
}

// Balance returns total debit minus total credit.
func (e *JournalEntry) Balance() decimal.Decimal {
	return e.TotalDebit().Sub(e.TotalCredit())
}

// IsBalanced reports whether total debit equals total credit.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// JournalLine is a single debit or credit movement against one account.
// Exactly one of Debit/Credit must be strictly positive; the other must be
// zero. Lines are ordered by line_no within an entry, then by ID.
type JournalLine struct {
	Base
	EntryID   uint            `gorm:"not null;index:idx_journal_lines_entry_account" json:"entry_id"`
	AccountID uint            `gorm:"not null;index;index:idx_journal_lines_entry_account" json:"account_id"`
	LineNo    int             `gorm:"not null;default:1" json:"line_no"`
	Debit     decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0" json:"debit"`
	Credit    decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0" json:"credit"`

	Account *Account `gorm:"foreignKey:AccountID;constraint:OnDelete:RESTRICT" json:"account,omitempty"`
}

// Amount returns the line's nonzero side.
func (l *JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// ValidAmounts reports whether the line satisfies the single-direction rule:
// no negative amounts, not both sides positive, and at least one side
// strictly positive.
func (l *JournalLine) ValidAmounts() bool {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return false
	}
	if l.Debit.IsPositive() && l.Credit.IsPositive() {
		return false
	}
	return l.Debit.IsPositive() || l.Credit.IsPositive()
}
