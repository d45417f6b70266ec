package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"defter/internal/models"
	"defter/internal/pagination"
)

// AccountServicer defines the contract for chart-of-accounts operations.
type AccountServicer interface {
	CreateAccount(code, name string, accountType models.AccountType, parentID *uint) (*models.Account, error)
	ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(id uint) (*models.Account, error)
	GetAccountByCode(code string) (*models.Account, error)
	UpdateAccount(id uint, name *string, parentID *uint) (*models.Account, error)
	DeleteAccount(id uint) error
	GetBalance(id uint, year, month *int) (decimal.Decimal, error)
}

// PeriodServicer defines the contract for the fiscal period guard. IsClosed
// accepts a transaction handle so the journal service can consult the guard
// inside its own transaction.
type PeriodServicer interface {
	IsClosed(tx *gorm.DB, date time.Time) (bool, error)
	ClosePeriod(year, month int) (*models.FiscalPeriod, error)
	ReopenPeriod(year, month int) (*models.FiscalPeriod, error)
	ListPeriods(page pagination.PageRequest) (*pagination.PageResponse[models.FiscalPeriod], error)
}

// EntryLine is the line input for journal entry create/update calls.
type EntryLine struct {
	AccountID uint
	LineNo    int
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// EntryTotals aggregates a filtered entry listing.
type EntryTotals struct {
	Count       int64           `json:"count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// JournalServicer defines the contract for journal entry state transitions.
// Every mutation runs as a single transaction and is validated against the
// fiscal period guard; posting additionally requires balance.
type JournalServicer interface {
	CreateEntry(date time.Time, description string, createdBy *string, lines []EntryLine) (*models.JournalEntry, error)
	UpdateEntry(id uint, date *time.Time, description *string, lines *[]EntryLine) (*models.JournalEntry, error)
	PostEntry(id uint) (*models.JournalEntry, error)
	GetEntry(id uint) (*models.JournalEntry, error)
	ListEntries(start, end *time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.JournalEntry], *EntryTotals, error)
	DeleteEntry(id uint) error
	BackfillLineNumbers() (int, error)
}

// BalanceServicer defines the contract for the balance aggregator.
type BalanceServicer interface {
	AccountBalance(account *models.Account, from, to *time.Time) (decimal.Decimal, error)
	AccountBalanceByPeriod(account *models.Account, year, month *int) (decimal.Decimal, error)
}

// BalanceCacheServicer defines the contract for the monthly balance cache.
type BalanceCacheServicer interface {
	RebuildMonthlyBalances() (int, error)
	ListMonthlyBalances(accountID *uint, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.AccountBalance], error)
}

// TrialBalanceRow is one account's raw debit/credit activity in a range.
// Balance here is the unsigned debit minus credit, not type-adjusted.
type TrialBalanceRow struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalanceReport is the trial balance over a date range.
type TrialBalanceReport struct {
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebit   decimal.Decimal   `json:"total_debit"`
	TotalCredit  decimal.Decimal   `json:"total_credit"`
	TotalBalance decimal.Decimal   `json:"total_balance"`
	RowCount     int               `json:"row_count"`
	LineCount    int               `json:"line_count"`
}

// BalanceSheetLine is one account's signed balance on the balance sheet.
type BalanceSheetLine struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheetReport is the balance sheet as of December 31 of a year.
// Match is a consistency check, not an enforced invariant: false signals an
// unbalanced ledger rather than a defect in the report.
type BalanceSheetReport struct {
	Year                   int                `json:"year"`
	Assets                 []BalanceSheetLine `json:"assets"`
	Liabilities            []BalanceSheetLine `json:"liabilities"`
	Equities               []BalanceSheetLine `json:"equities"`
	TotalAssets            decimal.Decimal    `json:"total_assets"`
	TotalLiabilitiesEquity decimal.Decimal    `json:"total_liabilities_equity"`
	Match                  bool               `json:"match"`
	NetResult              decimal.Decimal    `json:"net_result"`
}

// IncomeStatementLine is one account's net amount on the income statement.
type IncomeStatementLine struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// IncomeStatementReport is the income statement for a calendar year.
type IncomeStatementReport struct {
	Year         int                   `json:"year"`
	Incomes      []IncomeStatementLine `json:"incomes"`
	Expenses     []IncomeStatementLine `json:"expenses"`
	TotalIncome  decimal.Decimal       `json:"total_income"`
	TotalExpense decimal.Decimal       `json:"total_expense"`
	NetResult    decimal.Decimal       `json:"net_result"`
	IsProfit     bool                  `json:"is_profit"`
}

// ReportServicer defines the contract for the report generators. Reports
// never fail on empty data; they return zero totals and empty line items.
type ReportServicer interface {
	TrialBalance(from, to *time.Time) (*TrialBalanceReport, error)
	BalanceSheet(year int) (*BalanceSheetReport, error)
	IncomeStatement(year int) (*IncomeStatementReport, error)
}
