package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// cacheInvalidator drops derived data after rates or transactions change.
type cacheInvalidator interface {
	Invalidate(companyID string)
}

type exchangeRateService struct {
	BaseService
	table    *exchange.RateTable
	resolver *exchange.Resolver
	cache    cacheInvalidator
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithRateCacheInvalidator flushes cached reports whenever rates change.
func WithRateCacheInvalidator(c cacheInvalidator) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.cache = c
	}
}

// WithExchangeRateBase wires the shared BaseService (publisher, clock).
func WithExchangeRateBase(base BaseService) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.BaseService = base
	}
}

// NewExchangeRateService creates an exchange rate service over the shared table and resolver.
func NewExchangeRateService(table *exchange.RateTable, resolver *exchange.Resolver, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		table:    table,
		resolver: resolver,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) ListRates(ctx context.Context) ([]domain.ExchangeRate, time.Time) {
	return s.table.Rates(), s.table.LastUpdate()
}

func (s *exchangeRateService) GetRate(ctx context.Context, from, to string) (domain.Conversion, *domain.ExchangeRate, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	conv, err := s.resolver.EffectiveRate(from, to)
	if err != nil {
		s.LogDebug(ctx, "No rate path between currencies", slog.String("from", from), slog.String("to", to))
		return conv, nil, err
	}
	if latest, ok := s.table.Latest(from, to); ok {
		return conv, &latest, nil
	}
	return conv, nil, nil
}

func (s *exchangeRateService) GetHistoricalRate(ctx context.Context, from, to string, asOf time.Time) (*domain.ExchangeRate, error) {
	if asOf.IsZero() {
		asOf = s.CurrentTime()
	}
	r, err := s.table.HistoricalRate(strings.ToUpper(from), strings.ToUpper(to), asOf)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *exchangeRateService) PairHistory(ctx context.Context, from, to string) []domain.ExchangeRate {
	return s.table.PairHistory(strings.ToUpper(from), strings.ToUpper(to))
}

func (s *exchangeRateService) Convert(ctx context.Context, amount string, from, to string) (domain.Conversion, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return domain.Conversion{}, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, amount)
	}
	return s.resolver.Convert(value, strings.ToUpper(from), strings.ToUpper(to))
}

func (s *exchangeRateService) ReplaceRates(ctx context.Context, req dto.ReplaceRatesRequest, userID string) ([]domain.ExchangeRate, error) {
	if len(req.Rates) == 0 {
		return nil, fmt.Errorf("%w: at least one rate is required", apperrors.ErrValidation)
	}

	now := s.CurrentTime()
	rates := make([]domain.ExchangeRate, 0, len(req.Rates))
	for i, r := range req.Rates {
		from, to, err := validateRatePair(r)
		if err != nil {
			return nil, fmt.Errorf("rate %d: %w", i, err)
		}
		source := r.Source
		if source == "" {
			source = domain.SourceManual
		}
		rates = append(rates, domain.ExchangeRate{
			From:      from,
			To:        to,
			Rate:      r.Rate,
			Timestamp: now,
			Source:    source,
		})
	}

	s.table.AddRates(rates)
	s.afterRatesChanged(ctx, userID, len(rates))
	s.LogInfo(ctx, "Exchange rate snapshot replaced",
		slog.Int("rate_count", len(rates)),
		slog.String("user_id", userID))
	return s.table.Rates(), nil
}

func (s *exchangeRateService) AddManualRate(ctx context.Context, req dto.ExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	from, to, err := validateRatePair(req)
	if err != nil {
		return nil, err
	}
	for _, code := range []string{from, to} {
		if _, ok := s.table.Currency(code); !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %s", code))
		}
	}

	r := s.table.AddManualRate(from, to, req.Rate, req.Source)
	s.afterRatesChanged(ctx, userID, 1)
	s.LogInfo(ctx, "Manual exchange rate recorded",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("rate", r.Rate.String()),
		slog.String("user_id", userID))
	return &r, nil
}

func (s *exchangeRateService) afterRatesChanged(ctx context.Context, userID string, count int) {
	if s.cache != nil {
		s.cache.Invalidate("")
	}
	s.Publish(ctx, domain.EventRatesUpdated, "", "", userID, map[string]any{
		"rateCount":  count,
		"lastUpdate": s.table.LastUpdate(),
	})
}

func validateRatePair(r dto.ExchangeRateRequest) (string, string, error) {
	from, to := strings.ToUpper(strings.TrimSpace(r.From)), strings.ToUpper(strings.TrimSpace(r.To))
	if !ValidCurrencyCode(from) || !ValidCurrencyCode(to) {
		return "", "", fmt.Errorf("%w: currency codes must be three letters, got %q and %q", apperrors.ErrValidation, r.From, r.To)
	}
	if from == to {
		return "", "", fmt.Errorf("%w: rate currencies must differ, got %s twice", apperrors.ErrValidation, from)
	}
	if !r.Rate.IsPositive() {
		return "", "", fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrValidation, r.Rate)
	}
	return from, to, nil
}
