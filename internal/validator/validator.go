// Package validator provides custom validation functions for Gin's binding
// engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"defter/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_code", validateAccountCode)
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("entry_status", validateEntryStatus)
	}
}

func validateAccountCode(fl validator.FieldLevel) bool {
	return models.AccountCodePattern.MatchString(fl.Field().String())
}

func validateAccountType(fl validator.FieldLevel) bool {
	return models.AccountType(fl.Field().String()).Valid()
}

func validateEntryStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.EntryStatusDraft), string(models.EntryStatusPosted):
		return true
	}
	return false
}
