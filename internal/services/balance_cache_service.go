package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "defter/internal/errors"
	"defter/internal/models"
	"defter/internal/pagination"
)

// balanceCacheService maintains the monthly AccountBalance cache. The cache
// is derived from journal lines and fully rebuildable; nothing reads it as a
// source of truth.
type balanceCacheService struct {
	db *gorm.DB
}

// NewBalanceCacheService creates a new BalanceCacheServicer.
func NewBalanceCacheService(db *gorm.DB) BalanceCacheServicer {
	return &balanceCacheService{db: db}
}

type monthKey struct {
	AccountID uint
	Year      int
	Month     int
}

type monthTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

type cacheSourceRow struct {
	AccountID uint
	Date      time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// RebuildMonthlyBalances recomputes the per-month debit/credit totals of
// every account with activity and upserts them into account_balances. The
// whole rebuild is one transaction, so readers never observe a partially
// rebuilt month, and re-running over identical input produces identical rows.
// Returns the number of upserted rows.
func (s *balanceCacheService) RebuildMonthlyBalances() (int, error) {
	var rows []cacheSourceRow
	if err := s.db.Model(&models.JournalLine{}).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Select("journal_lines.account_id, journal_entries.date, journal_lines.debit, journal_lines.credit").
		Order("journal_lines.account_id, journal_entries.date").
		Scan(&rows).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[monthKey]*monthTotals)
	order := make([]monthKey, 0)
	for i := range rows {
		key := monthKey{
			AccountID: rows[i].AccountID,
			Year:      rows[i].Date.Year(),
			Month:     int(rows[i].Date.Month()),
		}
		agg, ok := totals[key]
		if !ok {
			agg = &monthTotals{Debit: decimal.Zero, Credit: decimal.Zero}
			totals[key] = agg
			order = append(order, key)
		}
		agg.Debit = agg.Debit.Add(rows[i].Debit)
		agg.Credit = agg.Credit.Add(rows[i].Credit)
	}

	count := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, key := range order {
			agg := totals[key]
			if err := upsertMonthlyBalance(tx, key, agg); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// upsertMonthlyBalance writes one (account, year, month) row, updating it in
// place when it already exists.
func upsertMonthlyBalance(tx *gorm.DB, key monthKey, agg *monthTotals) error {
	var existing models.AccountBalance
	result := tx.Where("account_id = ? AND year = ? AND month = ?", key.AccountID, key.Year, key.Month).
		First(&existing)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.Error == nil {
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"debit":  agg.Debit,
			"credit": agg.Credit,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	}

	balance := models.AccountBalance{
		AccountID: key.AccountID,
		Year:      key.Year,
		Month:     key.Month,
		Debit:     agg.Debit,
		Credit:    agg.Credit,
	}
	if err := tx.Create(&balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListMonthlyBalances returns cached monthly balances, newest months first,
// optionally filtered by account and year.
func (s *balanceCacheService) ListMonthlyBalances(accountID *uint, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.AccountBalance], error) {
	page.Defaults()

	base := s.db.Model(&models.AccountBalance{})
	if accountID != nil {
		base = base.Where("account_id = ?", *accountID)
	}
	if year != nil {
		base = base.Where("year = ?", *year)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var balances []models.AccountBalance
	if err := base.Order("year DESC, month DESC, account_id").
		Scopes(pagination.Paginate(page)).
		Preload("Account").
		Find(&balances).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(balances, page.Page, page.PageSize, totalItems)
	return &result, nil
}
