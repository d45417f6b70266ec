package models

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts and drives
// its sign convention.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// NormalSide is the side on which an account's natural positive balance
// accumulates.
type NormalSide string

const (
	DebitNormal  NormalSide = "debit"
	CreditNormal NormalSide = "credit"
)

// normalSides is the sign-convention lookup for each account type.
var normalSides = map[AccountType]NormalSide{
	AccountTypeAsset:     DebitNormal,
	AccountTypeExpense:   DebitNormal,
	AccountTypeLiability: CreditNormal,
	AccountTypeEquity:    CreditNormal,
	AccountTypeIncome:    CreditNormal,
}

// Normal returns the normal balance side for the account type.
func (t AccountType) Normal() NormalSide {
	return normalSides[t]
}

// Valid reports whether t is one of the five known account types.
func (t AccountType) Valid() bool {
	_, ok := normalSides[t]
	return ok
}

// SignedBalance applies the type's sign convention to raw debit/credit sums:
// debit-normal accounts return debit - credit, credit-normal the reverse.
func (t AccountType) SignedBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if t.Normal() == DebitNormal {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// AccountCodePattern validates account codes: a short numeric code of 3 to 6
// digits, e.g. 100, 102, 320, 500.
var AccountCodePattern = regexp.MustCompile(`^\d{3,6}$`)

// Account is a node in the chart of accounts. Codes are globally unique and
// the optional parent link forms a tree.
type Account struct {
	Base
	Code     string      `gorm:"size:10;not null;uniqueIndex" json:"code"`
	Name     string      `gorm:"size:120;not null" json:"name"`
	Type     AccountType `gorm:"size:10;not null;index" json:"type"`
	ParentID *uint       `gorm:"index" json:"parent_id,omitempty"`

	Parent   *Account  `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT" json:"parent,omitempty"`
	Children []Account `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
