package models

import "github.com/shopspring/decimal"

// AccountBalance is a materialized monthly debit/credit total for one
// account. It is a rebuildable cache derived from journal lines and is never
// a source of truth.
type AccountBalance struct {
	Base
	AccountID uint            `gorm:"not null;uniqueIndex:idx_account_balances_account_month" json:"account_id"`
	Year      int             `gorm:"not null;uniqueIndex:idx_account_balances_account_month;index" json:"year"`
	Month     int             `gorm:"not null;uniqueIndex:idx_account_balances_account_month;index" json:"month"`
	Debit     decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0" json:"debit"`
	Credit    decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0" json:"credit"`

	Account *Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"account,omitempty"`
}

// Balance returns the month's debit total minus its credit total.
func (b *AccountBalance) Balance() decimal.Decimal {
	return b.Debit.Sub(b.Credit)
}
