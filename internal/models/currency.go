package models

import "time"

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode  string    `db:"currency_code"` // Primary Key (e.g., "USD")
	Name          string    `db:"name"`
	Symbol        string    `db:"symbol"`
	Decimals      int32     `db:"decimals"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// CurrencySettings is the single persisted settings row. Providers are stored as JSONB.
type CurrencySettings struct {
	BaseCurrency    string    `db:"base_currency"`
	UpdateFrequency string    `db:"update_frequency"`
	Providers       []byte    `db:"providers"`
	LastUpdatedAt   time.Time `db:"last_updated_at"`
	LastUpdatedBy   string    `db:"last_updated_by"`
}
