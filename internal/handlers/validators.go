package handlers

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the ledger binding tags to gin's validator engine.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			slog.Warn("Gin validator engine is not go-playground/validator, ledger binding tags are unavailable")
			return
		}
		if err := RegisterLedgerValidators(v); err != nil {
			slog.Error("Failed to register ledger validators", slog.String("error", err.Error()))
		}
	})
}

// RegisterLedgerValidators registers the currency_code and positive_decimal
// tags on v, along with decimal.Decimal string conversion.
func RegisterLedgerValidators(v *validator.Validate) error {
	// Decimals are validated through their string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	return errors.Join(
		v.RegisterValidation("currency_code", validateCurrencyCode),
		v.RegisterValidation("positive_decimal", validatePositiveDecimal),
	)
}

// validateCurrencyCode accepts three ASCII letters in either case.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}
