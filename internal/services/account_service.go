package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "defter/internal/errors"
	"defter/internal/models"
	"defter/internal/pagination"
)

// accountService handles the chart of accounts.
type accountService struct {
	db             *gorm.DB
	balanceService BalanceServicer
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, balanceService BalanceServicer) AccountServicer {
	return &accountService{db: db, balanceService: balanceService}
}

// CreateAccount creates a new account in the chart of accounts.
func (s *accountService) CreateAccount(code, name string, accountType models.AccountType, parentID *uint) (*models.Account, error) {
	if !models.AccountCodePattern.MatchString(code) {
		return nil, apperrors.ErrInvalidAccountCode
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if !accountType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown account type")
	}

	var count int64
	if err := s.db.Model(&models.Account{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAccountCode
	}

	if parentID != nil {
		if _, err := s.GetAccountByID(*parentID); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "parent account not found")
		}
	}

	account := &models.Account{
		Code:     code,
		Name:     name,
		Type:     accountType,
		ParentID: parentID,
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by code.
func (s *accountService) ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Order("code").Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID.
func (s *accountService) GetAccountByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetAccountByCode retrieves an account by its code.
func (s *accountService) GetAccountByCode(code string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("code = ?", code).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an account's name or parent. Code and type are
// immutable once the account carries history.
func (s *accountService) UpdateAccount(id uint, name *string, parentID *uint) (*models.Account, error) {
	account, err := s.GetAccountByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if parentID != nil {
		if *parentID == id {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "an account cannot be its own parent")
		}
		if _, err := s.GetAccountByID(*parentID); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "parent account not found")
		}
		updates["parent_id"] = *parentID
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return account, nil
}

// DeleteAccount deletes an account. Deletion is protected, not cascading:
// it fails while child accounts or journal lines still reference the account.
func (s *accountService) DeleteAccount(id uint) error {
	account, err := s.GetAccountByID(id)
	if err != nil {
		return err
	}

	var childCount int64
	if err := s.db.Model(&models.Account{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if childCount > 0 {
		return apperrors.WithMessage(apperrors.ErrAccountInUse, "account has child accounts")
	}

	var lineCount int64
	if err := s.db.Model(&models.JournalLine{}).Where("account_id = ?", id).Count(&lineCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if lineCount > 0 {
		return apperrors.WithMessage(apperrors.ErrAccountInUse, "account is referenced by journal lines")
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBalance returns the account's signed balance over the requested window,
// delegating to the balance aggregator.
func (s *accountService) GetBalance(id uint, year, month *int) (decimal.Decimal, error) {
	account, err := s.GetAccountByID(id)
	if err != nil {
		return decimal.Zero, err
	}
	return s.balanceService.AccountBalanceByPeriod(account, year, month)
}
