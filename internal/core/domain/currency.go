package domain

import "github.com/shopspring/decimal"

// Currency represents a supported currency in the domain.
// Decimals only governs display rounding, never arithmetic precision.
type Currency struct {
	Code     string `json:"code"`   // Primary Key (e.g., "USD")
	Name     string `json:"name"`   // e.g., "US Dollar"
	Symbol   string `json:"symbol"` // e.g., "$"
	Decimals int32  `json:"decimals"`
	Active   bool   `json:"active"`
}

// Amount is a value that always carries its own currency.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// NewAmount builds an Amount.
func NewAmount(value decimal.Decimal, currency string) Amount {
	return Amount{Value: value, Currency: currency}
}

// String renders the amount as "<value> <currency>" without rounding.
func (a Amount) String() string {
	return a.Value.String() + " " + a.Currency
}
