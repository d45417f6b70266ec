package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"defter/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an account of the given type with a unique name.
func CreateTestAccount(t *testing.T, db *gorm.DB, code string, accountType models.AccountType) *models.Account {
	t.Helper()

	account := &models.Account{
		Code: code,
		Name: fmt.Sprintf("Test Account %d", nextID()),
		Type: accountType,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestChildAccount creates an account under the given parent.
func CreateTestChildAccount(t *testing.T, db *gorm.DB, code string, parent *models.Account) *models.Account {
	t.Helper()

	account := &models.Account{
		Code:     code,
		Name:     fmt.Sprintf("Test Child Account %d", nextID()),
		Type:     parent.Type,
		ParentID: &parent.ID,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test child account: %v", err)
	}
	return account
}

// CreateTestPeriod creates a fiscal period record for year/month.
func CreateTestPeriod(t *testing.T, db *gorm.DB, year, month int, closed bool) *models.FiscalPeriod {
	t.Helper()

	period := &models.FiscalPeriod{
		Year:     year,
		Month:    month,
		IsClosed: closed,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test fiscal period: %v", err)
	}
	return period
}

// CreateTestEntry creates a journal entry with the given lines already numbered.
func CreateTestEntry(t *testing.T, db *gorm.DB, date time.Time, lines []models.JournalLine) *models.JournalEntry {
	t.Helper()

	for i := range lines {
		if lines[i].LineNo == 0 {
			lines[i].LineNo = i + 1
		}
	}
	entry := &models.JournalEntry{
		Date:        date,
		Description: fmt.Sprintf("Test Entry %d", nextID()),
		Status:      models.EntryStatusDraft,
		Lines:       lines,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}

// DebitLine builds an unsaved debit line against the given account.
func DebitLine(accountID uint, amount string) models.JournalLine {
	return models.JournalLine{
		AccountID: accountID,
		Debit:     decimal.RequireFromString(amount),
		Credit:    decimal.Zero,
	}
}

// CreditLine builds an unsaved credit line against the given account.
func CreditLine(accountID uint, amount string) models.JournalLine {
	return models.JournalLine{
		AccountID: accountID,
		Debit:     decimal.Zero,
		Credit:    decimal.RequireFromString(amount),
	}
}

// Date builds a UTC date at midnight, the way entry dates are stored.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
