package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: d.Code,
		Name:         d.Name,
		Symbol:       d.Symbol,
		Decimals:     d.Decimals,
		Active:       d.Active,
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		Code:     m.CurrencyCode,
		Name:     m.Name,
		Symbol:   m.Symbol,
		Decimals: m.Decimals,
		Active:   m.Active,
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to a slice of domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}

// ToModelSettings converts domain settings to the persisted row. Currencies live in their own table.
func ToModelSettings(d domain.CurrencySettings) (models.CurrencySettings, error) {
	providers := d.Providers
	if providers == nil {
		providers = []domain.RateProvider{}
	}
	raw, err := json.Marshal(providers)
	if err != nil {
		return models.CurrencySettings{}, fmt.Errorf("failed to encode providers: %w", err)
	}
	return models.CurrencySettings{
		BaseCurrency:    d.BaseCurrency,
		UpdateFrequency: string(d.UpdateFrequency),
		Providers:       raw,
		LastUpdatedAt:   d.LastUpdatedAt,
		LastUpdatedBy:   d.LastUpdatedBy,
	}, nil
}

// ToDomainSettings converts the persisted settings row to domain settings without currencies.
func ToDomainSettings(m models.CurrencySettings) (domain.CurrencySettings, error) {
	var providers []domain.RateProvider
	if len(m.Providers) > 0 {
		if err := json.Unmarshal(m.Providers, &providers); err != nil {
			return domain.CurrencySettings{}, fmt.Errorf("failed to decode providers: %w", err)
		}
	}
	return domain.CurrencySettings{
		BaseCurrency:    m.BaseCurrency,
		UpdateFrequency: domain.UpdateFrequency(m.UpdateFrequency),
		Providers:       providers,
		LastUpdatedAt:   m.LastUpdatedAt,
		LastUpdatedBy:   m.LastUpdatedBy,
	}, nil
}
