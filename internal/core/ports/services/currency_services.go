package services

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrency retrieves a known currency by code.
	GetCurrency(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all known currencies, active or not.
	ListCurrencies(ctx context.Context) []domain.Currency

	// GetSettings returns the persisted currency settings.
	GetSettings(ctx context.Context) domain.CurrencySettings

	// BaseCurrency returns the default reference currency.
	BaseCurrency() string
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	RegisterCurrency(ctx context.Context, req dto.RegisterCurrencyRequest, userID string) (*domain.Currency, error)
	DeactivateCurrency(ctx context.Context, code string, userID string) error
	SetBaseCurrency(ctx context.Context, code string, userID string) error
	SetUpdateFrequency(ctx context.Context, frequency domain.UpdateFrequency, userID string) error
	AddProvider(ctx context.Context, req dto.AddProviderRequest, userID string) error
	RemoveProvider(ctx context.Context, name string, userID string) error

	// LoadSettings restores persisted currencies and settings into the process.
	LoadSettings(ctx context.Context) error
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// ListRates returns the current snapshot and the instant of the last replace.
	ListRates(ctx context.Context) ([]domain.ExchangeRate, time.Time)

	// GetRate returns the effective rate between two currencies and the stored
	// record when a direct one exists.
	GetRate(ctx context.Context, from, to string) (domain.Conversion, *domain.ExchangeRate, error)

	// GetHistoricalRate returns the latest rate recorded at or before asOf.
	GetHistoricalRate(ctx context.Context, from, to string, asOf time.Time) (*domain.ExchangeRate, error)

	// PairHistory returns every recorded rate for the pair, oldest first.
	PairHistory(ctx context.Context, from, to string) []domain.ExchangeRate

	// Convert converts a decimal string amount.
	Convert(ctx context.Context, amount string, from, to string) (domain.Conversion, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// ReplaceRates replaces the whole current snapshot.
	ReplaceRates(ctx context.Context, req dto.ReplaceRatesRequest, userID string) ([]domain.ExchangeRate, error)

	// AddManualRate records one rate that becomes current for its pair.
	AddManualRate(ctx context.Context, req dto.ExchangeRateRequest, userID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// RateRefresherSvc keeps the rate table fresh from external providers.
type RateRefresherSvc interface {
	// IsStale reports whether the rates are older than the update frequency allows.
	IsStale() bool

	// Refresh fetches from providers in priority order unless rates are fresh and force is false.
	Refresh(ctx context.Context, force bool) (domain.RefreshResult, error)

	// FetchHistorical records the provider rates of a past date into the history log.
	FetchHistorical(ctx context.Context, date time.Time) (int, error)

	// Run refreshes periodically until ctx is cancelled.
	Run(ctx context.Context)
}
