package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "defter/internal/errors"
	"defter/internal/pagination"
	"defter/internal/services"
)

// PeriodHandler handles fiscal period requests.
type PeriodHandler struct {
	periodService services.PeriodServicer
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodService services.PeriodServicer) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

// PeriodRequest identifies a fiscal period by calendar month.
type PeriodRequest struct {
	Year  int `json:"year" binding:"required,min=1"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ListPeriods handles the retrieval of fiscal periods, newest first.
// @Summary     List fiscal periods
// @Tags        periods
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FiscalPeriod] "Paginated periods"
// @Router      /periods [get]
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.periodService.ListPeriods(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClosePeriod marks a fiscal period as closed, blocking further postings
// dated inside it. Closing is idempotent.
// @Summary     Close a fiscal period
// @Tags        periods
// @Accept      json
// @Produce     json
// @Param       request body PeriodRequest true "Period to close"
// @Success     200 {object} models.FiscalPeriod "Closed period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /periods/close [post]
func (h *PeriodHandler) ClosePeriod(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.periodService.ClosePeriod(req.Year, req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period})
}

// ReopenPeriod marks a fiscal period as open again. Reopening is idempotent.
// @Summary     Reopen a fiscal period
// @Tags        periods
// @Accept      json
// @Produce     json
// @Param       request body PeriodRequest true "Period to reopen"
// @Success     200 {object} models.FiscalPeriod "Open period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /periods/reopen [post]
func (h *PeriodHandler) ReopenPeriod(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.periodService.ReopenPeriod(req.Year, req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period})
}
