package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	"github.com/SscSPs/multicurrency_ledger/internal/core/ports/providers"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/platform/metrics"
)

// ErrAllProvidersFailed is returned when no configured provider produced rates.
// The previous rates stay in place.
var ErrAllProvidersFailed = errors.New("all exchange rate providers failed")

const (
	DefaultFetchTimeout    = 10 * time.Second
	DefaultRefreshInterval = 5 * time.Minute
)

type rateRefresher struct {
	BaseService
	table      *exchange.RateTable
	currencies portssvc.CurrencyReaderSvc
	fetcher    providers.RateFetcher
	cache      cacheInvalidator
	timeout    time.Duration
	interval   time.Duration

	running sync.Mutex
}

// RateRefresherOption is a functional option for configuring the rate refresher
type RateRefresherOption func(*rateRefresher)

// WithFetchTimeout bounds every single provider call.
func WithFetchTimeout(d time.Duration) RateRefresherOption {
	return func(r *rateRefresher) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRefreshInterval sets how often Run checks for staleness.
func WithRefreshInterval(d time.Duration) RateRefresherOption {
	return func(r *rateRefresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithRefreshCacheInvalidator flushes cached reports after a successful refresh.
func WithRefreshCacheInvalidator(c cacheInvalidator) RateRefresherOption {
	return func(r *rateRefresher) {
		r.cache = c
	}
}

// WithRefresherBase wires the shared BaseService (publisher, clock).
func WithRefresherBase(base BaseService) RateRefresherOption {
	return func(r *rateRefresher) {
		r.BaseService = base
	}
}

// NewRateRefresher creates the background refresher of the shared rate table.
func NewRateRefresher(table *exchange.RateTable, currencies portssvc.CurrencyReaderSvc, fetcher providers.RateFetcher, options ...RateRefresherOption) portssvc.RateRefresherSvc {
	r := &rateRefresher{
		table:      table,
		currencies: currencies,
		fetcher:    fetcher,
		timeout:    DefaultFetchTimeout,
		interval:   DefaultRefreshInterval,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.RateRefresherSvc = (*rateRefresher)(nil)

func (r *rateRefresher) IsStale() bool {
	last := r.table.LastUpdate()
	if last.IsZero() {
		return true
	}
	frequency := r.currencies.GetSettings(context.Background()).UpdateFrequency
	return r.CurrentTime().Sub(last) > frequency.StaleAfter()
}

func (r *rateRefresher) Refresh(ctx context.Context, force bool) (domain.RefreshResult, error) {
	if !force && !r.IsStale() {
		return domain.RefreshResult{Skipped: true, LastUpdate: r.table.LastUpdate()}, nil
	}
	if !r.running.TryLock() {
		r.LogDebug(ctx, "Rate refresh already running, skipping")
		return domain.RefreshResult{Skipped: true, LastUpdate: r.table.LastUpdate()}, nil
	}
	defer r.running.Unlock()

	settings := r.currencies.GetSettings(ctx)
	base, symbols := r.targets(settings)
	if len(settings.Providers) == 0 {
		return domain.RefreshResult{LastUpdate: r.table.LastUpdate()}, fmt.Errorf("%w: no providers configured", ErrAllProvidersFailed)
	}
	if len(symbols) == 0 {
		return domain.RefreshResult{Skipped: true, LastUpdate: r.table.LastUpdate()}, nil
	}

	for _, provider := range settings.Providers {
		rates, err := r.fetch(ctx, provider, func(fetchCtx context.Context) ([]domain.ExchangeRate, error) {
			return r.fetcher.FetchLatest(fetchCtx, provider, base, symbols)
		})
		if err != nil {
			continue
		}

		r.table.AddRates(rates)
		if r.cache != nil {
			r.cache.Invalidate("")
		}
		last := r.table.LastUpdate()
		r.Publish(ctx, domain.EventRatesUpdated, "", "", "", map[string]any{
			"provider":   provider.Name,
			"rateCount":  len(rates),
			"lastUpdate": last,
		})
		r.LogInfo(ctx, "Exchange rates refreshed",
			slog.String("provider", provider.Name),
			slog.String("base_currency", base),
			slog.Int("rate_count", len(rates)))
		return domain.RefreshResult{
			Refreshed:  true,
			Provider:   provider.Name,
			RateCount:  len(rates),
			LastUpdate: last,
		}, nil
	}

	r.LogError(ctx, ErrAllProvidersFailed, "Keeping previous exchange rates",
		slog.Int("providers", len(settings.Providers)))
	return domain.RefreshResult{LastUpdate: r.table.LastUpdate()}, ErrAllProvidersFailed
}

func (r *rateRefresher) FetchHistorical(ctx context.Context, date time.Time) (int, error) {
	settings := r.currencies.GetSettings(ctx)
	if len(settings.Providers) == 0 {
		return 0, fmt.Errorf("%w: no providers configured", ErrAllProvidersFailed)
	}
	base, symbols := r.targets(settings)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	for _, provider := range settings.Providers {
		rates, err := r.fetch(ctx, provider, func(fetchCtx context.Context) ([]domain.ExchangeRate, error) {
			return r.fetcher.FetchHistorical(fetchCtx, provider, base, symbols, day)
		})
		if err != nil {
			continue
		}
		r.table.AddHistoricalRates(rates)
		r.LogInfo(ctx, "Historical exchange rates recorded",
			slog.String("provider", provider.Name),
			slog.String("date", day.Format(time.DateOnly)),
			slog.Int("rate_count", len(rates)))
		return len(rates), nil
	}
	return 0, ErrAllProvidersFailed
}

func (r *rateRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refreshLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			r.LogInfo(ctx, "Rate refresher stopped")
			return
		case <-ticker.C:
			r.refreshLogged(ctx)
		}
	}
}

func (r *rateRefresher) refreshLogged(ctx context.Context) {
	if _, err := r.Refresh(ctx, false); err != nil {
		r.LogError(ctx, err, "Scheduled rate refresh failed")
	}
}

// fetch runs one bounded provider call and records its outcome.
func (r *rateRefresher) fetch(ctx context.Context, provider domain.RateProvider, call func(context.Context) ([]domain.ExchangeRate, error)) ([]domain.ExchangeRate, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	rates, err := call(fetchCtx)
	metrics.RateFetchLatency.WithLabelValues(provider.Name).Observe(time.Since(start).Seconds())
	if err == nil && len(rates) == 0 {
		err = errors.New("provider returned no rates")
	}
	if err != nil {
		metrics.RateFetches.WithLabelValues(provider.Name, "error").Inc()
		r.LogError(ctx, err, "Exchange rate provider failed", slog.String("provider", provider.Name))
		return nil, err
	}
	metrics.RateFetches.WithLabelValues(provider.Name, "success").Inc()
	return rates, nil
}

// targets returns the base currency and every other active currency.
func (r *rateRefresher) targets(settings domain.CurrencySettings) (string, []string) {
	var symbols []string
	for _, c := range r.table.ActiveCurrencies() {
		if c.Code != settings.BaseCurrency {
			symbols = append(symbols, c.Code)
		}
	}
	return settings.BaseCurrency, symbols
}
