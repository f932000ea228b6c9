package utils

import (
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision rounds an amount to the display decimals of a currency.
// Example: amount 12.3456 with USD (decimals 2) returns "12.35"
// Example: amount 12.3456 with JPY (decimals 0) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.StringFixed(currency.Decimals)
}

// FormatWithPrecision formats an amount with the given number of decimals.
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.StringFixed(precision)
}

// FormatMoney renders an amount with its currency symbol, e.g. "$12.35".
func FormatMoney(amount decimal.Decimal, currency domain.Currency) string {
	formatted := FormatWithCurrencyPrecision(amount.Abs(), currency)
	if amount.IsNegative() {
		return "-" + currency.Symbol + formatted
	}
	return currency.Symbol + formatted
}
