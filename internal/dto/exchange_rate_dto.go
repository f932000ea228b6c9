package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateRequest defines one rate supplied by a caller.
type ExchangeRateRequest struct {
	From   string          `json:"from" binding:"required,currency_code"`
	To     string          `json:"to" binding:"required,currency_code,nefield=From"`
	Rate   decimal.Decimal `json:"rate" binding:"required,positive_decimal"`
	Source string          `json:"source"`
}

// ReplaceRatesRequest replaces the whole current rate snapshot.
type ReplaceRatesRequest struct {
	Rates []ExchangeRateRequest `json:"rates" binding:"required,min=1,dive"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(r domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		From:      r.From,
		To:        r.To,
		Rate:      r.Rate,
		Timestamp: r.Timestamp,
		Source:    r.Source,
	}
}

// ToExchangeRateResponses converts a slice of rates.
func ToExchangeRateResponses(rates []domain.ExchangeRate) []ExchangeRateResponse {
	res := make([]ExchangeRateResponse, len(rates))
	for i, r := range rates {
		res[i] = ToExchangeRateResponse(r)
	}
	return res
}

// ExchangeRatesResponse lists the current snapshot.
type ExchangeRatesResponse struct {
	Rates      []ExchangeRateResponse `json:"rates"`
	LastUpdate *time.Time             `json:"lastUpdate,omitempty"`
}

// PairRateResponse is the effective rate between two currencies.
type PairRateResponse struct {
	From   string                `json:"from"`
	To     string                `json:"to"`
	Rate   decimal.Decimal       `json:"rate"`
	Method string                `json:"method"`
	Pivot  string                `json:"pivot,omitempty"`
	Latest *ExchangeRateResponse `json:"latest,omitempty"` // Stored record when the pair is direct
}

// ConvertParams are the query parameters of a conversion.
type ConvertParams struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required,currency_code"`
	To     string `form:"to" binding:"required,currency_code"`
}

// ConversionResponse is the result of a conversion.
type ConversionResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"` // Rounded to the target currency's decimals
	Method    string          `json:"method"`
	Pivot     string          `json:"pivot,omitempty"`
}

// RefreshRatesRequest asks for a provider fetch.
type RefreshRatesRequest struct {
	Force bool `json:"force"`
}

// RefreshRatesResponse reports the outcome of a refresh.
type RefreshRatesResponse struct {
	Refreshed  bool       `json:"refreshed"`
	Skipped    bool       `json:"skipped"`
	Provider   string     `json:"provider,omitempty"`
	RateCount  int        `json:"rateCount"`
	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
}

// FetchHistoricalRequest asks for the rates of one past date.
type FetchHistoricalRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

// HistoricalRateParams are the query parameters of an as-of lookup.
type HistoricalRateParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02T15:04:05Z07:00"`
}
