// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"carteira/internal/ledger"
)

var (
	loginRegex  = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)
	tickerRegex = regexp.MustCompile(`^[A-Za-z0-9.]{1,20}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("login", validateLogin)
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("rate_mode", validateRateMode)
		_ = v.RegisterValidation("asset_class", validateAssetClass)
	}
}

func validateLogin(fl validator.FieldLevel) bool {
	return loginRegex.MatchString(fl.Field().String())
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

func validateRateMode(fl validator.FieldLevel) bool {
	switch ledger.RateMode(fl.Field().String()) {
	case ledger.RateFixed, ledger.RateIndexed:
		return true
	}
	return false
}

func validateAssetClass(fl validator.FieldLevel) bool {
	return ledger.AssetClass(fl.Field().String()).Valid()
}
