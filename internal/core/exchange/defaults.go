package exchange

import (
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultPivot is the pivot currency of the seeded rate matrix.
const DefaultPivot = "USD"

// DefaultCurrencies returns the currencies seeded on a fresh start.
func DefaultCurrencies() []domain.Currency {
	return []domain.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$", Decimals: 2, Active: true},
		{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Decimals: 2, Active: true},
		{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", Decimals: 2, Active: true},
		{Code: "EUR", Name: "Euro", Symbol: "€", Decimals: 2, Active: true},
		{Code: "GBP", Name: "British Pound", Symbol: "£", Decimals: 2, Active: true},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Decimals: 0, Active: true},
		{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Decimals: 2, Active: true},
		{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Decimals: 2, Active: true},
		{Code: "CHF", Name: "Swiss Franc", Symbol: "Fr", Decimals: 2, Active: true},
		{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Decimals: 2, Active: true},
		{Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", Decimals: 2, Active: true},
		{Code: "KRW", Name: "South Korean Won", Symbol: "₩", Decimals: 0, Active: true},
	}
}

// defaultUSDRates maps each seeded currency to units per 1 USD.
var defaultUSDRates = map[string]string{
	"CNY": "7.2",
	"HKD": "7.8",
	"EUR": "0.92",
	"GBP": "0.79",
	"JPY": "148.5",
	"AUD": "1.52",
	"CAD": "1.35",
	"CHF": "0.88",
	"SGD": "1.34",
	"NZD": "1.64",
	"KRW": "1320",
}

// DefaultRates derives the full seeded matrix stamped at ts: USD to every
// currency, its inverse, and every cross pair through USD.
func DefaultRates(ts time.Time) []domain.ExchangeRate {
	usd := make(map[string]decimal.Decimal, len(defaultUSDRates))
	for code, v := range defaultUSDRates {
		usd[code] = decimal.RequireFromString(v)
	}

	one := decimal.NewFromInt(1)
	seed := func(from, to string, rate decimal.Decimal) domain.ExchangeRate {
		return domain.ExchangeRate{From: from, To: to, Rate: rate, Timestamp: ts, Source: domain.SourceDefault}
	}

	var rates []domain.ExchangeRate
	currencies := DefaultCurrencies()
	for _, c := range currencies {
		r, ok := usd[c.Code]
		if !ok {
			continue
		}
		rates = append(rates,
			seed(DefaultPivot, c.Code, r),
			seed(c.Code, DefaultPivot, one.DivRound(r, DivisionScale)),
		)
	}
	for _, from := range currencies {
		for _, to := range currencies {
			fr, okFrom := usd[from.Code]
			tr, okTo := usd[to.Code]
			if from.Code == to.Code || !okFrom || !okTo {
				continue
			}
			rates = append(rates, seed(from.Code, to.Code, tr.DivRound(fr, DivisionScale)))
		}
	}
	return rates
}

// NewDefaultRateTable returns a table seeded with the default currencies and
// rate matrix so conversions work before any live fetch succeeds.
func NewDefaultRateTable(opts ...TableOption) *RateTable {
	t := NewRateTable(opts...)
	for _, c := range DefaultCurrencies() {
		t.RegisterCurrency(c)
	}
	t.Seed(DefaultRates(t.now()))
	return t
}

// Seed installs rates as the current snapshot and history without touching
// LastUpdate, so the seeded matrix never counts as a fresh fetch.
func (t *RateTable) Seed(rates []domain.ExchangeRate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range rates {
		t.current[r.Pair()] = r
	}
	t.history = append(t.history, rates...)
}
