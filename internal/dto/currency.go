package dto

import (
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// RegisterCurrencyRequest defines the data needed to register a currency.
type RegisterCurrencyRequest struct {
	Code     string `json:"code" binding:"required,currency_code"`
	Name     string `json:"name" binding:"required"`
	Symbol   string `json:"symbol" binding:"required"`
	Decimals *int32 `json:"decimals" binding:"required,min=0,max=18"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
	Active   bool   `json:"active"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(c domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:     c.Code,
		Name:     c.Name,
		Symbol:   c.Symbol,
		Decimals: c.Decimals,
		Active:   c.Active,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		res[i] = ToCurrencyResponse(c)
	}
	return res
}

// SetBaseCurrencyRequest changes the default reference currency.
type SetBaseCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,currency_code"`
}

// SetUpdateFrequencyRequest changes how long fetched rates stay fresh.
type SetUpdateFrequencyRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=realtime daily weekly monthly"`
}

// AddProviderRequest registers an external rate provider.
type AddProviderRequest struct {
	Name     string `json:"name" binding:"required"`
	Priority *int   `json:"priority" binding:"required,min=0"`
	BaseURL  string `json:"baseUrl" binding:"required,url"`
	APIKey   string `json:"apiKey"`
}

// ProviderResponse describes a provider without exposing its key.
type ProviderResponse struct {
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	BaseURL   string `json:"baseUrl"`
	HasAPIKey bool   `json:"hasApiKey"`
}

// CurrencySettingsResponse is the persisted currency configuration.
type CurrencySettingsResponse struct {
	BaseCurrency        string             `json:"baseCurrency"`
	AvailableCurrencies []CurrencyResponse `json:"availableCurrencies"`
	Providers           []ProviderResponse `json:"providers"`
	UpdateFrequency     string             `json:"updateFrequency"`
}

// ToCurrencySettingsResponse converts domain.CurrencySettings to its DTO.
func ToCurrencySettingsResponse(s domain.CurrencySettings) CurrencySettingsResponse {
	providers := make([]ProviderResponse, len(s.Providers))
	for i, p := range s.Providers {
		providers[i] = ProviderResponse{
			Name:      p.Name,
			Priority:  p.Priority,
			BaseURL:   p.BaseURL,
			HasAPIKey: p.APIKey != "",
		}
	}
	return CurrencySettingsResponse{
		BaseCurrency:        s.BaseCurrency,
		AvailableCurrencies: ToListCurrencyResponse(s.AvailableCurrencies),
		Providers:           providers,
		UpdateFrequency:     string(s.UpdateFrequency),
	}
}
