package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "defter/internal/errors"
	"defter/internal/models"
	"defter/internal/pagination"
	"defter/internal/services"
)

// AccountHandler handles chart-of-accounts requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the request payload for creating an account.
type CreateAccountRequest struct {
	Code     string `json:"code" binding:"required,account_code"`
	Name     string `json:"name" binding:"required,min=1,max=120"`
	Type     string `json:"type" binding:"required,account_type"`
	ParentID *uint  `json:"parent_id"`
}

// UpdateAccountRequest represents the request payload for updating an
// account. Code and type are immutable.
type UpdateAccountRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	ParentID *uint   `json:"parent_id"`
}

// CreateAccount handles account creation.
// @Summary     Create an account
// @Description Create a new account in the chart of accounts
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid code or input"
// @Failure     409 {object} ErrorResponse "Duplicate code"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(req.Code, req.Name, models.AccountType(req.Type), req.ParentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts handles the retrieval of the chart of accounts ordered by code.
// @Summary     List accounts
// @Description Get a paginated list of accounts ordered by code
// @Tags        accounts
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.accountService.ListAccounts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountByID handles the retrieval of a specific account.
// @Summary     Get account by ID
// @Tags        accounts
// @Produce     json
// @Param       id path int true "Account ID"
// @Success     200 {object} models.Account "Account details"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles account updates.
// @Summary     Update account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id path int true "Account ID"
// @Param       request body UpdateAccountRequest true "Updated fields"
// @Success     200 {object} models.Account "Updated account"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(accountID, req.Name, req.ParentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles protected account deletion.
// @Summary     Delete account
// @Description Delete an account that has no children and no journal lines
// @Tags        accounts
// @Produce     json
// @Param       id path int true "Account ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Account in use"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAccountBalance returns the account's signed balance, optionally
// restricted to a year or a (year, month) window.
// @Summary     Get account balance
// @Tags        accounts
// @Produce     json
// @Param       id    path  int true  "Account ID"
// @Param       year  query int false "Restrict to a calendar year"
// @Param       month query int false "Restrict to a month (requires year)"
// @Success     200 {object} map[string]interface{} "Signed balance"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/balance [get]
func (h *AccountHandler) GetAccountBalance(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseIntQuery(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := parseIntQuery(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.accountService.GetBalance(accountID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_id": accountID,
		"year":       year,
		"month":      month,
		"balance":    balance,
	})
}
