package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "defter/internal/errors"
	"defter/internal/models"
)

// balanceService implements the balance aggregator. All data fetches are
// explicit range-filtered line queries; sums and sign conventions are applied
// in Go with decimal arithmetic.
//
// Aggregation is defined over all lines regardless of entry status: draft
// entries contribute to balances the same as posted ones, so reports expose
// work in progress.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

type amountRow struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// sumLines totals the debit and credit of the account's lines whose entry
// date falls within [from, to]; either bound may be nil for an open side.
func (s *balanceService) sumLines(accountID uint, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	q := s.db.Model(&models.JournalLine{}).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Where("journal_lines.account_id = ?", accountID)
	if from != nil {
		q = q.Where("journal_entries.date >= ?", *from)
	}
	if to != nil {
		q = q.Where("journal_entries.date <= ?", *to)
	}

	var rows []amountRow
	if err := q.Select("journal_lines.debit, journal_lines.credit").Scan(&rows).Error; err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	debit, credit := decimal.Zero, decimal.Zero
	for i := range rows {
		debit = debit.Add(rows[i].Debit)
		credit = credit.Add(rows[i].Credit)
	}
	return debit, credit, nil
}

// AccountBalance returns the account's signed balance over [from, to].
// Absence of matching lines yields zero, not an error.
func (s *balanceService) AccountBalance(account *models.Account, from, to *time.Time) (decimal.Decimal, error) {
	debit, credit, err := s.sumLines(account.ID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Type.SignedBalance(debit, credit), nil
}

// AccountBalanceByPeriod returns the signed balance over a calendar window:
// unbounded when year is nil, the whole year when month is nil, otherwise the
// single month.
func (s *balanceService) AccountBalanceByPeriod(account *models.Account, year, month *int) (decimal.Decimal, error) {
	if year == nil {
		if month != nil {
			return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "month filter requires a year")
		}
		return s.AccountBalance(account, nil, nil)
	}
	if month != nil && (*month < 1 || *month > 12) {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	var from, to time.Time
	if month == nil {
		from = time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to = time.Date(*year, time.December, 31, 0, 0, 0, 0, time.UTC)
	} else {
		from = time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
	}
	return s.AccountBalance(account, &from, &to)
}
