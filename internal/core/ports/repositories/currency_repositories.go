package repositories

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// CurrencyRepository persists currency definitions.
type CurrencyRepository interface {
	// ListCurrencies retrieves every persisted currency.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// UpsertCurrency inserts a currency or replaces its definition.
	UpsertCurrency(ctx context.Context, currency domain.Currency) error
}

// SettingsRepository persists the currency settings that survive a restart.
type SettingsRepository interface {
	// GetSettings returns the stored settings (without currencies) or apperrors.ErrNotFound.
	GetSettings(ctx context.Context) (*domain.CurrencySettings, error)

	// SaveSettings stores base currency, update frequency and providers.
	SaveSettings(ctx context.Context, settings domain.CurrencySettings) error
}

// CurrencyRepositoryFacade combines currency and settings persistence
type CurrencyRepositoryFacade interface {
	CurrencyRepository
	SettingsRepository
}
