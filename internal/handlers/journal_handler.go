package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "defter/internal/errors"
	"defter/internal/models"
	"defter/internal/pagination"
	"defter/internal/services"
)

// JournalHandler handles journal entry requests.
type JournalHandler struct {
	journalService services.JournalServicer
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalService services.JournalServicer) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// EntryLineRequest is one line of an entry payload. line_no may be omitted;
// the validator assigns sequential numbers in attachment order.
type EntryLineRequest struct {
	AccountID uint            `json:"account_id" binding:"required"`
	LineNo    int             `json:"line_no" binding:"omitempty,min=1"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateEntryRequest represents the request payload for creating a draft
// journal entry.
type CreateEntryRequest struct {
	Date        string             `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required,max=200"`
	CreatedBy   *string            `json:"created_by" binding:"omitempty,max=120"`
	Lines       []EntryLineRequest `json:"lines" binding:"omitempty,dive"`
}

// UpdateEntryRequest represents the request payload for updating an entry.
// Supplying lines replaces the entry's lines wholesale.
type UpdateEntryRequest struct {
	Date        *string             `json:"date"`
	Description *string             `json:"description" binding:"omitempty,max=200"`
	Lines       *[]EntryLineRequest `json:"lines" binding:"omitempty,dive"`
}

func toEntryLines(reqs []EntryLineRequest) []services.EntryLine {
	lines := make([]services.EntryLine, len(reqs))
	for i, r := range reqs {
		lines[i] = services.EntryLine{
			AccountID: r.AccountID,
			LineNo:    r.LineNo,
			Debit:     r.Debit,
			Credit:    r.Credit,
		}
	}
	return lines
}

// entryPayload decorates an entry with its derived totals.
func entryPayload(entry *models.JournalEntry) gin.H {
	return gin.H{
		"entry":        entry,
		"total_debit":  entry.TotalDebit(),
		"total_credit": entry.TotalCredit(),
		"balance":      entry.Balance(),
		"is_balanced":  entry.IsBalanced(),
	}
}

// CreateEntry handles the creation of a draft journal entry.
// @Summary     Create a journal entry
// @Description Create a draft entry with zero or more lines; drafts may be unbalanced
// @Tags        entries
// @Accept      json
// @Produce     json
// @Param       request body CreateEntryRequest true "Entry details"
// @Success     201 {object} models.JournalEntry "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input or line amounts"
// @Failure     409 {object} ErrorResponse "Period closed"
// @Router      /entries [post]
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseEntryDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.journalService.CreateEntry(date, req.Description, req.CreatedBy, toEntryLines(req.Lines))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entryPayload(entry))
}

// ListEntries handles the retrieval of journal entries filtered by date
// range, newest first, with aggregate totals over the filtered set.
// @Summary     List journal entries
// @Tags        entries
// @Produce     json
// @Param       start     query string false "Start date (YYYY-MM-DD); malformed values are ignored"
// @Param       end       query string false "End date (YYYY-MM-DD); malformed values are ignored"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.JournalEntry] "Paginated entries with totals"
// @Router      /entries [get]
func (h *JournalHandler) ListEntries(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start := parseDateQuery(c, "start")
	end := parseDateQuery(c, "end")

	result, totals, err := h.journalService.ListEntries(start, end, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": result,
		"totals":  totals,
	})
}

// GetEntry handles the retrieval of a single entry with ordered lines.
// @Summary     Get journal entry by ID
// @Tags        entries
// @Produce     json
// @Param       id path int true "Entry ID"
// @Success     200 {object} models.JournalEntry "Entry with lines and totals"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /entries/{id} [get]
func (h *JournalHandler) GetEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.journalService.GetEntry(entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entryPayload(entry))
}

// UpdateEntry handles entry updates. Posted entries must remain balanced.
// @Summary     Update a journal entry
// @Tags        entries
// @Accept      json
// @Produce     json
// @Param       id      path int true "Entry ID"
// @Param       request body UpdateEntryRequest true "Updated fields"
// @Success     200 {object} models.JournalEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Unbalanced posted entry or invalid lines"
// @Failure     409 {object} ErrorResponse "Period closed"
// @Router      /entries/{id} [put]
func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := parseEntryDate(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		date = &parsed
	}

	var lines *[]services.EntryLine
	if req.Lines != nil {
		converted := toEntryLines(*req.Lines)
		lines = &converted
	}

	entry, err := h.journalService.UpdateEntry(entryID, date, req.Description, lines)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entryPayload(entry))
}

// PostEntry transitions a draft entry to posted.
// @Summary     Post a journal entry
// @Description Transition an entry from draft to posted; it must be balanced and dated in an open period
// @Tags        entries
// @Produce     json
// @Param       id path int true "Entry ID"
// @Success     200 {object} models.JournalEntry "Posted entry"
// @Failure     400 {object} ErrorResponse "Unbalanced entry"
// @Failure     409 {object} ErrorResponse "Period closed"
// @Router      /entries/{id}/post [post]
func (h *JournalHandler) PostEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.journalService.PostEntry(entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entryPayload(entry))
}

// DeleteEntry deletes a draft entry together with its lines.
// @Summary     Delete a journal entry
// @Tags        entries
// @Produce     json
// @Param       id path int true "Entry ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     409 {object} ErrorResponse "Entry is posted"
// @Router      /entries/{id} [delete]
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.journalService.DeleteEntry(entryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
