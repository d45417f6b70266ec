package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "defter/internal/errors"
	"defter/internal/models"
	"defter/internal/pagination"
	"defter/internal/services"
	"defter/internal/validator"
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock account service ---

type mockAccountService struct {
	createAccountFn    func(code, name string, accountType models.AccountType, parentID *uint) (*models.Account, error)
	listAccountsFn     func(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	getAccountByIDFn   func(id uint) (*models.Account, error)
	getAccountByCodeFn func(code string) (*models.Account, error)
	updateAccountFn    func(id uint, name *string, parentID *uint) (*models.Account, error)
	deleteAccountFn    func(id uint) error
	getBalanceFn       func(id uint, year, month *int) (decimal.Decimal, error)
}

func (m *mockAccountService) CreateAccount(code, name string, accountType models.AccountType, parentID *uint) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(code, name, accountType, parentID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(page)
	}
	resp := pagination.NewPageResponse([]models.Account{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAccountService) GetAccountByID(id uint) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(id)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetAccountByCode(code string) (*models.Account, error) {
	if m.getAccountByCodeFn != nil {
		return m.getAccountByCodeFn(code)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(id uint, name *string, parentID *uint) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(id, name, parentID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) DeleteAccount(id uint) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(id)
	}
	return nil
}

func (m *mockAccountService) GetBalance(id uint, year, month *int) (decimal.Decimal, error) {
	if m.getBalanceFn != nil {
		return m.getBalanceFn(id, year, month)
	}
	return decimal.Zero, nil
}

// verify interface compliance
var _ services.AccountServicer = (*mockAccountService)(nil)

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	r.POST("/accounts", handler.CreateAccount)
	r.GET("/accounts", handler.ListAccounts)
	r.GET("/accounts/:id", handler.GetAccountByID)
	r.PUT("/accounts/:id", handler.UpdateAccount)
	r.DELETE("/accounts/:id", handler.DeleteAccount)
	r.GET("/accounts/:id/balance", handler.GetAccountBalance)
	return r
}

// --- tests ---

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		acctSvc := &mockAccountService{
			createAccountFn: func(code, name string, accountType models.AccountType, parentID *uint) (*models.Account, error) {
				return &models.Account{
					Base: models.Base{ID: 1},
					Code: code,
					Name: name,
					Type: accountType,
				}, nil
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts", `{"code":"100","name":"Cash","type":"asset"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		acct := result["account"].(map[string]interface{})
		if acct["code"] != "100" {
			t.Errorf("expected code 100, got %v", acct["code"])
		}
	})

	t.Run("returns 400 on bad code format", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts", `{"code":"1x","name":"Cash","type":"asset"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts", `{"code":"100","name":"Cash","type":"thing"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate code", func(t *testing.T) {
		acctSvc := &mockAccountService{
			createAccountFn: func(_, _ string, _ models.AccountType, _ *uint) (*models.Account, error) {
				return nil, apperrors.ErrDuplicateAccountCode
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts", `{"code":"100","name":"Cash","type":"asset"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_ACCOUNT_CODE")
	})
}

func TestAccountHandler_GetAccountByID(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		acctSvc := &mockAccountService{
			getAccountByIDFn: func(id uint) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})

	t.Run("returns 400 on non-numeric id", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_DeleteAccount(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "DELETE", "/accounts/1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 409 when in use", func(t *testing.T) {
		acctSvc := &mockAccountService{
			deleteAccountFn: func(id uint) error {
				return apperrors.ErrAccountInUse
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "DELETE", "/accounts/1", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_IN_USE")
	})
}

func TestAccountHandler_GetAccountBalance(t *testing.T) {
	t.Run("passes year and month filters through", func(t *testing.T) {
		var gotYear, gotMonth *int
		acctSvc := &mockAccountService{
			getBalanceFn: func(id uint, year, month *int) (decimal.Decimal, error) {
				gotYear, gotMonth = year, month
				return decimal.RequireFromString("70.00"), nil
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/1/balance?year=2026&month=3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotYear == nil || *gotYear != 2026 {
			t.Errorf("expected year 2026, got %v", gotYear)
		}
		if gotMonth == nil || *gotMonth != 3 {
			t.Errorf("expected month 3, got %v", gotMonth)
		}
		result := parseJSON(t, rec)
		if result["balance"] != "70" && result["balance"] != "70.00" {
			t.Errorf("expected balance 70, got %v", result["balance"])
		}
	})

	t.Run("returns 400 on malformed year", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/1/balance?year=twenty", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
