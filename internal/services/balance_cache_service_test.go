package services

import (
	"testing"
	"time"

	"defter/internal/models"
	"defter/internal/pagination"
	"defter/internal/testutil"
)

func TestRebuildMonthlyBalances(t *testing.T) {
	t.Run("groups_by_account_and_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceCacheService(db)

		cash := testutil.CreateTestAccount(t, db, "100", models.AccountTypeAsset)
		sales := testutil.CreateTestAccount(t, db, "600", models.AccountTypeIncome)

		testutil.CreateTestEntry(t, db, testutil.Date(2026, time.March, 1), []models.JournalLine{
			testutil.DebitLine(cash.ID, "100.00"),
			testutil.CreditLine(sales.ID, "100.00"),
		})
		testutil.CreateTestEntry(t, db, testutil.Date(2026, time.March, 20), []models.JournalLine{
			testutil.DebitLine(cash.ID, "50.00"),
			testutil.CreditLine(sales.ID, "50.00"),
		})
		testutil.CreateTestEntry(t, db, testutil.Date(2026, time.April, 2), []models.JournalLine{
			testutil.CreditLine(cash.ID, "30.00"),
			testutil.DebitLine(sales.ID, "30.00"),
		})

		count, err := svc.RebuildMonthlyBalances()
		testutil.AssertNoError(t, err)
		// cash March, sales March, cash April, sales April.
		if count != 4 {
			t.Fatalf("expected 4 cache rows, got %d", count)
		}

		var row models.AccountBalance
		testutil.AssertNoError(t, db.Where("account_id = ? AND year = 2026 AND month = 3", cash.ID).First(&row).Error)
		testutil.AssertDecimalEqual(t, "150.00", row.Debit)
		testutil.AssertDecimalEqual(t, "0", row.Credit)

		row = models.AccountBalance{}
		testutil.AssertNoError(t, db.Where("account_id = ? AND year = 2026 AND month = 4", cash.ID).First(&row).Error)
		testutil.AssertDecimalEqual(t, "0", row.Debit)
		testutil.AssertDecimalEqual(t, "30.00", row.Credit)
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceCacheService(db)

		cash := testutil.CreateTestAccount(t, db, "100", models.AccountTypeAsset)
		sales := testutil.CreateTestAccount(t, db, "600", models.AccountTypeIncome)
		testutil.CreateTestEntry(t, db, testutil.Date(2026, time.March, 1), []models.JournalLine{
			testutil.DebitLine(cash.ID, "10.00"),
			testutil.CreditLine(sales.ID, "10.00"),
		})

		_, err := svc.RebuildMonthlyBalances()
		testutil.AssertNoError(t, err)
		_, err = svc.RebuildMonthlyBalances()
		testutil.AssertNoError(t, err)

		var total int64
		db.Model(&models.AccountBalance{}).Count(&total)
		if total != 2 {
			t.Errorf("expected 2 cache rows after double rebuild, got %d", total)
		}
	})

	t.Run("picks_up_new_activity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceCacheService(db)

		cash := testutil.CreateTestAccount(t, db, "100", models.AccountTypeAsset)
		sales := testutil.CreateTestAccount(t, db, "600", models.AccountTypeIncome)
		testutil.CreateTestEntry(t, db, testutil.Date(2026, time.March, 1), []models.JournalLine{
			testutil.DebitLine(cash.ID, "10.00"),
			testutil.CreditLine(sales.ID, "10.00"),
		})

		_, err := svc.RebuildMonthlyBalances()
		testutil.AssertNoError(t, err)

		testutil.CreateTestEntry(t, db, testutil.Date(2026, time.March, 15), []models.JournalLine{
			testutil.DebitLine(cash.ID, "5.00"),
			testutil.CreditLine(sales.ID, "5.00"),
		})
		_, err = svc.RebuildMonthlyBalances()
		testutil.AssertNoError(t, err)

		var row models.AccountBalance
		testutil.AssertNoError(t, db.Where("account_id = ? AND year = 2026 AND month = 3", cash.ID).First(&row).Error)
		testutil.AssertDecimalEqual(t, "15.00", row.Debit)
	})

	t.Run("empty_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceCacheService(db)

		count, err := svc.RebuildMonthlyBalances()
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected no cache rows for an empty ledger, got %d", count)
		}
	})
}

func TestListMonthlyBalances(t *testing.T) {
	t.Run("filters_and_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceCacheService(db)

		cash := testutil.CreateTestAccount(t, db, "100", models.AccountTypeAsset)
		sales := testutil.CreateTestAccount(t, db, "600", models.AccountTypeIncome)
		testutil.CreateTestEntry(t, db, testutil.Date(2025, time.December, 10), []models.JournalLine{
			testutil.DebitLine(cash.ID, "10.00"),
			testutil.CreditLine(sales.ID, "10.00"),
		})
		testutil.CreateTestEntry(t, db, testutil.Date(2026, time.February, 10), []models.JournalLine{
			testutil.DebitLine(cash.ID, "20.00"),
			testutil.CreditLine(sales.ID, "20.00"),
		})

		_, err := svc.RebuildMonthlyBalances()
		testutil.AssertNoError(t, err)

		// Newest month first, unfiltered.
		page, err := svc.ListMonthlyBalances(nil, nil, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 {
			t.Fatalf("expected 4 cache rows, got %d", page.TotalItems)
		}
		if page.Data[0].Year != 2026 || page.Data[0].Month != 2 {
			t.Errorf("expected 2026-02 first, got %d-%02d", page.Data[0].Year, page.Data[0].Month)
		}
		if page.Data[0].Account == nil {
			t.Error("expected the account preloaded on cache rows")
		}

		// Account filter.
		page, err = svc.ListMonthlyBalances(&cash.ID, nil, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 rows for cash, got %d", page.TotalItems)
		}

		// Year filter.
		year := 2025
		page, err = svc.ListMonthlyBalances(nil, &year, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 rows for 2025, got %d", page.TotalItems)
		}
	})
}
