package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"defter/internal/models"
	"defter/internal/pagination"
	"defter/internal/services"
)

// --- mock report and cache services ---

type mockReportService struct {
	trialBalanceFn    func(from, to *time.Time) (*services.TrialBalanceReport, error)
	balanceSheetFn    func(year int) (*services.BalanceSheetReport, error)
	incomeStatementFn func(year int) (*services.IncomeStatementReport, error)
}

func (m *mockReportService) TrialBalance(from, to *time.Time) (*services.TrialBalanceReport, error) {
	if m.trialBalanceFn != nil {
		return m.trialBalanceFn(from, to)
	}
	return &services.TrialBalanceReport{Rows: []services.TrialBalanceRow{}}, nil
}

func (m *mockReportService) BalanceSheet(year int) (*services.BalanceSheetReport, error) {
	if m.balanceSheetFn != nil {
		return m.balanceSheetFn(year)
	}
	return &services.BalanceSheetReport{Year: year}, nil
}

func (m *mockReportService) IncomeStatement(year int) (*services.IncomeStatementReport, error) {
	if m.incomeStatementFn != nil {
		return m.incomeStatementFn(year)
	}
	return &services.IncomeStatementReport{Year: year}, nil
}

type mockBalanceCacheService struct {
	rebuildFn func() (int, error)
	listFn    func(accountID *uint, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.AccountBalance], error)
}

func (m *mockBalanceCacheService) RebuildMonthlyBalances() (int, error) {
	if m.rebuildFn != nil {
		return m.rebuildFn()
	}
	return 0, nil
}

func (m *mockBalanceCacheService) ListMonthlyBalances(accountID *uint, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.AccountBalance], error) {
	if m.listFn != nil {
		return m.listFn(accountID, year, page)
	}
	resp := pagination.NewPageResponse([]models.AccountBalance{}, 1, 20, 0)
	return &resp, nil
}

// verify interface compliance
var _ services.ReportServicer = (*mockReportService)(nil)
var _ services.BalanceCacheServicer = (*mockBalanceCacheService)(nil)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	r.GET("/reports/trial-balance", handler.TrialBalance)
	r.GET("/reports/balance-sheet/:year", handler.BalanceSheet)
	r.GET("/reports/income-statement/:year", handler.IncomeStatement)
	r.GET("/balances", handler.ListMonthlyBalances)
	r.POST("/balances/rebuild", handler.RebuildMonthlyBalances)
	return r
}

// --- tests ---

func TestReportHandler_TrialBalance(t *testing.T) {
	t.Run("malformed dates fall back to unbounded", func(t *testing.T) {
		var gotFrom, gotTo *time.Time
		rptSvc := &mockReportService{
			trialBalanceFn: func(from, to *time.Time) (*services.TrialBalanceReport, error) {
				gotFrom, gotTo = from, to
				return &services.TrialBalanceReport{Rows: []services.TrialBalanceRow{}}, nil
			},
		}
		handler := NewReportHandler(rptSvc, &mockBalanceCacheService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/trial-balance?start=garbage&end=2026-12-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFrom != nil {
			t.Errorf("expected malformed start ignored, got %v", gotFrom)
		}
		if gotTo == nil {
			t.Error("expected end bound passed through")
		}
	})
}

func TestReportHandler_BalanceSheet(t *testing.T) {
	t.Run("returns 200 with report", func(t *testing.T) {
		rptSvc := &mockReportService{
			balanceSheetFn: func(year int) (*services.BalanceSheetReport, error) {
				return &services.BalanceSheetReport{
					Year:                   year,
					Assets:                 []services.BalanceSheetLine{{Code: "100", Name: "Cash", Balance: decimal.RequireFromString("1150.00")}},
					TotalAssets:            decimal.RequireFromString("1150.00"),
					TotalLiabilitiesEquity: decimal.RequireFromString("1150.00"),
					Match:                  true,
				}, nil
			},
		}
		handler := NewReportHandler(rptSvc, &mockBalanceCacheService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/balance-sheet/2026", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["match"] != true {
			t.Errorf("expected match true, got %v", result["match"])
		}
	})

	t.Run("returns 400 on bad year", func(t *testing.T) {
		handler := NewReportHandler(&mockReportService{}, &mockBalanceCacheService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/balance-sheet/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestReportHandler_ListMonthlyBalances(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotAccount *uint
		var gotYear *int
		cacheSvc := &mockBalanceCacheService{
			listFn: func(accountID *uint, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.AccountBalance], error) {
				gotAccount, gotYear = accountID, year
				resp := pagination.NewPageResponse([]models.AccountBalance{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewReportHandler(&mockReportService{}, cacheSvc)
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/balances?account_id=3&year=2026", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotAccount == nil || *gotAccount != 3 {
			t.Errorf("expected account_id 3, got %v", gotAccount)
		}
		if gotYear == nil || *gotYear != 2026 {
			t.Errorf("expected year 2026, got %v", gotYear)
		}
	})

	t.Run("returns 400 on malformed account_id", func(t *testing.T) {
		handler := NewReportHandler(&mockReportService{}, &mockBalanceCacheService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/balances?account_id=xyz", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestReportHandler_RebuildMonthlyBalances(t *testing.T) {
	t.Run("returns upserted row count", func(t *testing.T) {
		cacheSvc := &mockBalanceCacheService{
			rebuildFn: func() (int, error) {
				return 4, nil
			},
		}
		handler := NewReportHandler(&mockReportService{}, cacheSvc)
		r := setupReportRouter(handler)

		rec := doRequest(r, "POST", "/balances/rebuild", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["rebuilt"] != float64(4) {
			t.Errorf("expected rebuilt 4, got %v", result["rebuilt"])
		}
	})
}
