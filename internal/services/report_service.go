package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "defter/internal/errors"
	"defter/internal/models"
)

// Synthetic equity line carrying the period's net income/expense result on
// the balance sheet.
const (
	NetResultCode = "DNET"
	NetResultName = "Net Period Result"
)

// reportService builds the financial statements on top of explicit
// range-filtered line scans. Like the balance aggregator, it reads all lines
// regardless of entry status.
type reportService struct {
	db            *gorm.DB
	incomePrefix  string
	expensePrefix string
}

// NewReportService creates a new ReportServicer. Accounts whose code starts
// with incomePrefix/expensePrefix classify as income/expense on the income
// statement; the account type is the fallback.
func NewReportService(db *gorm.DB, incomePrefix, expensePrefix string) ReportServicer {
	return &reportService{db: db, incomePrefix: incomePrefix, expensePrefix: expensePrefix}
}

// reportLineRow is one journal line joined with its account, ordered by
// account code so aggregation can run in a single pass.
type reportLineRow struct {
	Code   string
	Name   string
	Type   models.AccountType
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (s *reportService) scanLines(from, to *time.Time) ([]reportLineRow, error) {
	q := s.db.Model(&models.JournalLine{}).
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.entry_id").
		Joins("JOIN accounts ON accounts.id = journal_lines.account_id")
	if from != nil {
		q = q.Where("journal_entries.date >= ?", *from)
	}
	if to != nil {
		q = q.Where("journal_entries.date <= ?", *to)
	}

	var rows []reportLineRow
	if err := q.
		Select("accounts.code AS code, accounts.name AS name, accounts.type AS type, journal_lines.debit, journal_lines.credit").
		Order("accounts.code, journal_lines.id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// accountActivity is the per-account debit/credit aggregate of a scan.
type accountActivity struct {
	Code   string
	Name   string
	Type   models.AccountType
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// groupByAccount folds code-ordered line rows into per-account totals,
// preserving code order.
func groupByAccount(rows []reportLineRow) []accountActivity {
	var groups []accountActivity
	for i := range rows {
		if len(groups) == 0 || groups[len(groups)-1].Code != rows[i].Code {
			groups = append(groups, accountActivity{
				Code:   rows[i].Code,
				Name:   rows[i].Name,
				Type:   rows[i].Type,
				Debit:  decimal.Zero,
				Credit: decimal.Zero,
			})
		}
		last := &groups[len(groups)-1]
		last.Debit = last.Debit.Add(rows[i].Debit)
		last.Credit = last.Credit.Add(rows[i].Credit)
	}
	return groups
}

// TrialBalance lists each account's raw debit/credit totals over [from, to],
// with grand totals across all accounts. For a ledger of balanced entries the
// grand totals reconcile.
func (s *reportService) TrialBalance(from, to *time.Time) (*TrialBalanceReport, error) {
	lines, err := s.scanLines(from, to)
	if err != nil {
		return nil, err
	}

	report := &TrialBalanceReport{
		Rows:         []TrialBalanceRow{},
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
		TotalBalance: decimal.Zero,
		LineCount:    len(lines),
	}

	for _, g := range groupByAccount(lines) {
		report.Rows = append(report.Rows, TrialBalanceRow{
			Code:    g.Code,
			Name:    g.Name,
			Debit:   g.Debit,
			Credit:  g.Credit,
			Balance: g.Debit.Sub(g.Credit),
		})
		report.TotalDebit = report.TotalDebit.Add(g.Debit)
		report.TotalCredit = report.TotalCredit.Add(g.Credit)
	}

	report.TotalBalance = report.TotalDebit.Sub(report.TotalCredit)
	report.RowCount = len(report.Rows)
	return report, nil
}

// BalanceSheet reports each account's signed balance over all lines dated on
// or before December 31 of the year. Income and expense accounts are not
// listed as line items; their net result appears as a single synthetic line
// in the equity section when nonzero.
func (s *reportService) BalanceSheet(year int) (*BalanceSheetReport, error) {
	cutoff := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	lines, err := s.scanLines(nil, &cutoff)
	if err != nil {
		return nil, err
	}

	report := &BalanceSheetReport{
		Year:        year,
		Assets:      []BalanceSheetLine{},
		Liabilities: []BalanceSheetLine{},
		Equities:    []BalanceSheetLine{},
	}

	incomeTotal, expenseTotal := decimal.Zero, decimal.Zero
	totalAssets, totalLiabilities, totalEquity := decimal.Zero, decimal.Zero, decimal.Zero

	for _, g := range groupByAccount(lines) {
		bal := g.Type.SignedBalance(g.Debit, g.Credit)
		if bal.IsZero() {
			continue
		}

		switch g.Type {
		case models.AccountTypeAsset:
			report.Assets = append(report.Assets, BalanceSheetLine{Code: g.Code, Name: g.Name, Balance: bal})
			totalAssets = totalAssets.Add(bal)
		case models.AccountTypeLiability:
			report.Liabilities = append(report.Liabilities, BalanceSheetLine{Code: g.Code, Name: g.Name, Balance: bal})
			totalLiabilities = totalLiabilities.Add(bal)
		case models.AccountTypeEquity:
			report.Equities = append(report.Equities, BalanceSheetLine{Code: g.Code, Name: g.Name, Balance: bal})
			totalEquity = totalEquity.Add(bal)
		case models.AccountTypeIncome:
			incomeTotal = incomeTotal.Add(bal)
		case models.AccountTypeExpense:
			expenseTotal = expenseTotal.Add(bal)
		}
	}

	netResult := incomeTotal.Sub(expenseTotal)
	if !netResult.IsZero() {
		report.Equities = append(report.Equities, BalanceSheetLine{
			Code:    NetResultCode,
			Name:    NetResultName,
			Balance: netResult,
		})
		totalEquity = totalEquity.Add(netResult)
	}

	report.NetResult = netResult
	report.TotalAssets = totalAssets
	report.TotalLiabilitiesEquity = totalLiabilities.Add(totalEquity)
	report.Match = report.TotalAssets.Equal(report.TotalLiabilitiesEquity)
	return report, nil
}

// IncomeStatement reports income and expense activity within a calendar
// year. The code prefix decides classification; the account type is the
// fallback, and accounts matching neither are excluded.
func (s *reportService) IncomeStatement(year int) (*IncomeStatementReport, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	lines, err := s.scanLines(&start, &end)
	if err != nil {
		return nil, err
	}

	report := &IncomeStatementReport{
		Year:         year,
		Incomes:      []IncomeStatementLine{},
		Expenses:     []IncomeStatementLine{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, g := range groupByAccount(lines) {
		isIncome := strings.HasPrefix(g.Code, s.incomePrefix) || g.Type == models.AccountTypeIncome
		isExpense := strings.HasPrefix(g.Code, s.expensePrefix) || g.Type == models.AccountTypeExpense

		switch {
		case isIncome:
			amount := g.Credit.Sub(g.Debit)
			if amount.IsZero() {
				continue
			}
			report.Incomes = append(report.Incomes, IncomeStatementLine{Code: g.Code, Name: g.Name, Amount: amount})
			report.TotalIncome = report.TotalIncome.Add(amount)
		case isExpense:
			amount := g.Debit.Sub(g.Credit)
			if amount.IsZero() {
				continue
			}
			report.Expenses = append(report.Expenses, IncomeStatementLine{Code: g.Code, Name: g.Name, Amount: amount})
			report.TotalExpense = report.TotalExpense.Add(amount)
		}
	}

	report.NetResult = report.TotalIncome.Sub(report.TotalExpense)
	report.IsProfit = report.NetResult.GreaterThanOrEqual(decimal.Zero)
	return report, nil
}
