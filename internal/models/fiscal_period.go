package models

import "time"

// FiscalPeriod marks whether a calendar month is closed for posting.
// A month with no record is open by default.
type FiscalPeriod struct {
	Base
	Year     int  `gorm:"not null;uniqueIndex:idx_fiscal_periods_year_month" json:"year"`
	Month    int  `gorm:"not null;uniqueIndex:idx_fiscal_periods_year_month" json:"month"`
	IsClosed bool `gorm:"not null;default:false" json:"is_closed"`
}

// Contains reports whether the given date falls inside this period.
func (p *FiscalPeriod) Contains(date time.Time) bool {
	return date.Year() == p.Year && int(date.Month()) == p.Month
}
