package providers

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// RateFetcher retrieves exchange rates from an external provider.
type RateFetcher interface {
	// FetchLatest returns the provider's current rates from base to each symbol.
	FetchLatest(ctx context.Context, provider domain.RateProvider, base string, symbols []string) ([]domain.ExchangeRate, error)

	// FetchHistorical returns the provider's rates from base to each symbol on date.
	FetchHistorical(ctx context.Context, provider domain.RateProvider, base string, symbols []string, date time.Time) ([]domain.ExchangeRate, error)
}
