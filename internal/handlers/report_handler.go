package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "defter/internal/errors"
	"defter/internal/pagination"
	"defter/internal/services"
)

// ReportHandler handles report and monthly balance cache requests.
type ReportHandler struct {
	reportService services.ReportServicer
	cacheService  services.BalanceCacheServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, cacheService services.BalanceCacheServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, cacheService: cacheService}
}

// TrialBalance returns per-account debit/credit totals over a date range.
// @Summary     Trial balance
// @Description Per-account debit/credit totals with grand totals; for a balanced ledger the totals reconcile
// @Tags        reports
// @Produce     json
// @Param       start query string false "Start date (YYYY-MM-DD); malformed values fall back to no bound"
// @Param       end   query string false "End date (YYYY-MM-DD); malformed values fall back to no bound"
// @Success     200 {object} services.TrialBalanceReport "Trial balance"
// @Router      /reports/trial-balance [get]
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	from := parseDateQuery(c, "start")
	to := parseDateQuery(c, "end")

	report, err := h.reportService.TrialBalance(from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// BalanceSheet returns the balance sheet as of December 31 of a year.
// @Summary     Balance sheet
// @Tags        reports
// @Produce     json
// @Param       year path int true "Reporting year"
// @Success     200 {object} services.BalanceSheetReport "Balance sheet"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Router      /reports/balance-sheet/{year} [get]
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	year, err := parseYearParam(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.BalanceSheet(year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// IncomeStatement returns the income statement for a calendar year.
// @Summary     Income statement
// @Tags        reports
// @Produce     json
// @Param       year path int true "Reporting year"
// @Success     200 {object} services.IncomeStatementReport "Income statement"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Router      /reports/income-statement/{year} [get]
func (h *ReportHandler) IncomeStatement(c *gin.Context) {
	year, err := parseYearParam(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.IncomeStatement(year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListMonthlyBalances returns the cached monthly balances, newest first.
// @Summary     List cached monthly balances
// @Tags        balances
// @Produce     json
// @Param       account_id query int false "Filter by account ID"
// @Param       year       query int false "Filter by year"
// @Param       page       query int false "Page number (default 1)"
// @Param       page_size  query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AccountBalance] "Paginated monthly balances"
// @Router      /balances [get]
func (h *ReportHandler) ListMonthlyBalances(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	accountID, err := parseUintQuery(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := parseIntQuery(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.cacheService.ListMonthlyBalances(accountID, year, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RebuildMonthlyBalances recomputes the monthly balance cache from journal
// line history. The rebuild is idempotent.
// @Summary     Rebuild the monthly balance cache
// @Tags        balances
// @Produce     json
// @Success     200 {object} map[string]interface{} "Number of upserted rows"
// @Router      /balances/rebuild [post]
func (h *ReportHandler) RebuildMonthlyBalances(c *gin.Context) {
	count, err := h.cacheService.RebuildMonthlyBalances()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rebuilt": count})
}
