package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "defter/internal/errors"
	"defter/internal/models"
	"defter/internal/pagination"
)

// periodService implements the fiscal period guard. A (year, month) pair with
// no record is open by default.
type periodService struct {
	db *gorm.DB
}

// NewPeriodService creates a new PeriodServicer.
func NewPeriodService(db *gorm.DB) PeriodServicer {
	return &periodService{db: db}
}

// IsClosed reports whether the fiscal period containing the date is closed.
// When tx is non-nil the lookup runs on that transaction so callers can
// re-validate inside their own transaction before committing.
func (s *periodService) IsClosed(tx *gorm.DB, date time.Time) (bool, error) {
	if tx == nil {
		tx = s.db
	}

	var period models.FiscalPeriod
	err := tx.Where("year = ? AND month = ?", date.Year(), int(date.Month())).First(&period).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return period.IsClosed, nil
}

// ClosePeriod marks (year, month) as closed. The flip is idempotent and does
// not retroactively validate entries already dated inside the period.
func (s *periodService) ClosePeriod(year, month int) (*models.FiscalPeriod, error) {
	return s.setClosed(year, month, true)
}

// ReopenPeriod marks (year, month) as open again. Reopening a period that has
// no record is a no-op beyond materializing the open record.
func (s *periodService) ReopenPeriod(year, month int) (*models.FiscalPeriod, error) {
	return s.setClosed(year, month, false)
}

func (s *periodService) setClosed(year, month int, closed bool) (*models.FiscalPeriod, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive")
	}

	var period models.FiscalPeriod
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("year = ? AND month = ?", year, month).First(&period).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			period = models.FiscalPeriod{Year: year, Month: month, IsClosed: closed}
			if err := tx.Create(&period).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if period.IsClosed == closed {
			return nil
		}
		if err := tx.Model(&period).Update("is_closed", closed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		period.IsClosed = closed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// ListPeriods returns fiscal periods ordered newest first.
func (s *periodService) ListPeriods(page pagination.PageRequest) (*pagination.PageResponse[models.FiscalPeriod], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.FiscalPeriod{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var periods []models.FiscalPeriod
	if err := base.Order("year DESC, month DESC").
		Scopes(pagination.Paginate(page)).
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(periods, page.Page, page.PageSize, totalItems)
	return &result, nil
}
