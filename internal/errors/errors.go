// Package errors provides the structured error types used across the ledger.
// All service-layer errors use AppError so handlers can produce consistent
// JSON responses without leaking internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an
// internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Account errors.
var (
	ErrAccountNotFound      = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrInvalidAccountCode   = &AppError{Code: "INVALID_ACCOUNT_CODE", Message: "Account code must be 3 to 6 digits", StatusCode: http.StatusBadRequest}
	ErrDuplicateAccountCode = &AppError{Code: "DUPLICATE_ACCOUNT_CODE", Message: "An account with this code already exists", StatusCode: http.StatusConflict}
	ErrAccountInUse         = &AppError{Code: "ACCOUNT_IN_USE", Message: "Account is referenced by child accounts or journal lines", StatusCode: http.StatusConflict}
)

// Fiscal period errors.
var (
	ErrPeriodClosed = &AppError{Code: "PERIOD_CLOSED", Message: "The fiscal period for this date is closed", StatusCode: http.StatusConflict}
)

// Journal entry errors.
var (
	ErrEntryNotFound     = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Journal entry not found", StatusCode: http.StatusNotFound}
	ErrUnbalancedEntry   = &AppError{Code: "UNBALANCED_ENTRY", Message: "Entry is not balanced: total debit and credit must be equal", StatusCode: http.StatusBadRequest}
	ErrInvalidLineAmount = &AppError{Code: "INVALID_LINE_AMOUNT", Message: "A line must carry a positive amount on exactly one of debit or credit", StatusCode: http.StatusBadRequest}
	ErrEntryPosted       = &AppError{Code: "ENTRY_POSTED", Message: "Posted entries cannot be deleted", StatusCode: http.StatusConflict}
)
