package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
)

const maxCurrencyDecimals = 18

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidCurrencyCode reports whether code is three upper-case letters.
func ValidCurrencyCode(code string) bool {
	return currencyCodePattern.MatchString(code)
}

type currencyService struct {
	BaseService
	table *exchange.RateTable
	repo  portsrepo.CurrencyRepositoryFacade

	mu        sync.RWMutex
	settings  domain.CurrencySettings
	providers []domain.RateProvider
}

// CurrencyServiceOption is a functional option for configuring the currency service
type CurrencyServiceOption func(*currencyService)

// WithSeedProviders installs providers used until persisted settings say otherwise.
func WithSeedProviders(providers []domain.RateProvider) CurrencyServiceOption {
	return func(s *currencyService) {
		s.providers = append([]domain.RateProvider(nil), providers...)
	}
}

// WithCurrencyBase wires the shared BaseService (publisher, clock).
func WithCurrencyBase(base BaseService) CurrencyServiceOption {
	return func(s *currencyService) {
		s.BaseService = base
	}
}

// NewCurrencyService creates a currency service over the shared rate table.
func NewCurrencyService(table *exchange.RateTable, repo portsrepo.CurrencyRepositoryFacade, baseCurrency string, options ...CurrencyServiceOption) portssvc.CurrencySvcFacade {
	if baseCurrency == "" {
		baseCurrency = exchange.DefaultPivot
	}
	svc := &currencyService{
		table: table,
		repo:  repo,
		settings: domain.CurrencySettings{
			BaseCurrency:    baseCurrency,
			UpdateFrequency: domain.FrequencyDaily,
		},
	}
	for _, option := range options {
		option(svc)
	}
	sortProviders(svc.providers)
	return svc
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	c, ok := s.table.Currency(strings.ToUpper(code))
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %s", code))
	}
	return &c, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) []domain.Currency {
	return s.table.Currencies()
}

func (s *currencyService) GetSettings(ctx context.Context) domain.CurrencySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *currencyService) BaseCurrency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.BaseCurrency
}

func (s *currencyService) RegisterCurrency(ctx context.Context, req dto.RegisterCurrencyRequest, userID string) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !ValidCurrencyCode(code) {
		return nil, fmt.Errorf("%w: currency code must be three letters, got %q", apperrors.ErrValidation, req.Code)
	}
	if req.Decimals == nil || *req.Decimals < 0 || *req.Decimals > maxCurrencyDecimals {
		return nil, fmt.Errorf("%w: decimals must be between 0 and %d", apperrors.ErrValidation, maxCurrencyDecimals)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Symbol) == "" {
		return nil, fmt.Errorf("%w: name and symbol are required", apperrors.ErrValidation)
	}

	currency := domain.Currency{
		Code:     code,
		Name:     strings.TrimSpace(req.Name),
		Symbol:   strings.TrimSpace(req.Symbol),
		Decimals: *req.Decimals,
		Active:   true,
	}

	// The currency only goes live once both the settings and its row are stored.
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(ctx, userID, currency); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to persist currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to register currency %s: %w", code, err)
	}
	s.table.RegisterCurrency(currency)

	s.LogInfo(ctx, "Currency registered",
		slog.String("currency_code", code),
		slog.Int("decimals", int(currency.Decimals)),
		slog.String("user_id", userID))
	return &currency, nil
}

func (s *currencyService) DeactivateCurrency(ctx context.Context, code string, userID string) error {
	code = strings.ToUpper(code)
	current, ok := s.table.Currency(code)
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("currency %s", code))
	}
	if code == s.BaseCurrency() {
		return fmt.Errorf("%w: cannot deactivate the base currency %s", apperrors.ErrValidation, code)
	}

	current.Active = false
	if err := s.repo.UpsertCurrency(ctx, current); err != nil {
		s.LogError(ctx, err, "Failed to persist currency deactivation", slog.String("currency_code", code))
		return fmt.Errorf("failed to deactivate currency %s: %w", code, err)
	}
	if err := s.table.DeactivateCurrency(code); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(ctx, userID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Currency deactivated", slog.String("currency_code", code), slog.String("user_id", userID))
	return nil
}

func (s *currencyService) SetBaseCurrency(ctx context.Context, code string, userID string) error {
	code = strings.ToUpper(code)
	c, ok := s.table.Currency(code)
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("currency %s", code))
	}
	if !c.Active {
		return fmt.Errorf("%w: currency %s is inactive", apperrors.ErrValidation, code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.settings.BaseCurrency
	s.settings.BaseCurrency = code
	if err := s.persistLocked(ctx, userID); err != nil {
		s.settings.BaseCurrency = previous
		return err
	}
	s.LogInfo(ctx, "Base currency changed",
		slog.String("from", previous),
		slog.String("to", code),
		slog.String("user_id", userID))
	return nil
}

func (s *currencyService) SetUpdateFrequency(ctx context.Context, frequency domain.UpdateFrequency, userID string) error {
	if !frequency.Valid() {
		return fmt.Errorf("%w: unknown update frequency %q", apperrors.ErrValidation, frequency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.settings.UpdateFrequency
	s.settings.UpdateFrequency = frequency
	if err := s.persistLocked(ctx, userID); err != nil {
		s.settings.UpdateFrequency = previous
		return err
	}
	return nil
}

func (s *currencyService) AddProvider(ctx context.Context, req dto.AddProviderRequest, userID string) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: provider name is required", apperrors.ErrValidation)
	}
	if req.Priority == nil || *req.Priority < 0 {
		return fmt.Errorf("%w: provider priority must be zero or greater", apperrors.ErrValidation)
	}
	if err := validateProviderURL(req.BaseURL); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.providers {
		if strings.EqualFold(p.Name, name) {
			return fmt.Errorf("provider %s: %w", name, apperrors.ErrDuplicate)
		}
	}

	previous := s.providers
	next := append(append([]domain.RateProvider(nil), s.providers...), domain.RateProvider{
		Name:     name,
		Priority: *req.Priority,
		BaseURL:  req.BaseURL,
		APIKey:   req.APIKey,
	})
	sortProviders(next)
	s.providers = next
	if err := s.persistLocked(ctx, userID); err != nil {
		s.providers = previous
		return err
	}
	s.LogInfo(ctx, "Rate provider added",
		slog.String("provider", name),
		slog.Int("priority", *req.Priority))
	return nil
}

func (s *currencyService) RemoveProvider(ctx context.Context, name string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.providers {
		if strings.EqualFold(p.Name, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("provider %s", name))
	}

	previous := s.providers
	next := make([]domain.RateProvider, 0, len(s.providers)-1)
	next = append(next, s.providers[:idx]...)
	next = append(next, s.providers[idx+1:]...)
	s.providers = next
	if err := s.persistLocked(ctx, userID); err != nil {
		s.providers = previous
		return err
	}
	s.LogInfo(ctx, "Rate provider removed", slog.String("provider", name))
	return nil
}

func (s *currencyService) LoadSettings(ctx context.Context) error {
	currencies, err := s.repo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load persisted currencies")
		return fmt.Errorf("failed to load currencies: %w", err)
	}
	for _, c := range currencies {
		s.table.RegisterCurrency(c)
	}

	stored, err := s.repo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "No persisted currency settings, keeping defaults",
				slog.Int("currencies", len(currencies)))
			return nil
		}
		s.LogError(ctx, err, "Failed to load currency settings")
		return fmt.Errorf("failed to load currency settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if stored.BaseCurrency != "" {
		s.settings.BaseCurrency = stored.BaseCurrency
	}
	if stored.UpdateFrequency.Valid() {
		s.settings.UpdateFrequency = stored.UpdateFrequency
	}
	if len(stored.Providers) > 0 {
		s.providers = append([]domain.RateProvider(nil), stored.Providers...)
		sortProviders(s.providers)
	}
	s.settings.LastUpdatedAt = stored.LastUpdatedAt
	s.settings.LastUpdatedBy = stored.LastUpdatedBy

	s.LogInfo(ctx, "Currency settings loaded",
		slog.String("base_currency", s.settings.BaseCurrency),
		slog.String("update_frequency", string(s.settings.UpdateFrequency)),
		slog.Int("providers", len(s.providers)),
		slog.Int("currencies", len(currencies)))
	return nil
}

// persistLocked writes the settings. Callers hold s.mu. pending currencies are
// included in the snapshot before they are registered in the table.
func (s *currencyService) persistLocked(ctx context.Context, userID string, pending ...domain.Currency) error {
	s.settings.LastUpdatedAt = s.CurrentTime()
	s.settings.LastUpdatedBy = userID
	if err := s.repo.SaveSettings(ctx, s.snapshotLocked(pending...)); err != nil {
		s.LogError(ctx, err, "Failed to persist currency settings")
		return fmt.Errorf("failed to save currency settings: %w", err)
	}
	return nil
}

func (s *currencyService) snapshotLocked(pending ...domain.Currency) domain.CurrencySettings {
	out := s.settings
	out.AvailableCurrencies = s.table.Currencies()
	for _, c := range pending {
		i := slices.IndexFunc(out.AvailableCurrencies, func(known domain.Currency) bool { return known.Code == c.Code })
		if i >= 0 {
			out.AvailableCurrencies[i] = c
			continue
		}
		out.AvailableCurrencies = append(out.AvailableCurrencies, c)
	}
	out.Providers = append([]domain.RateProvider(nil), s.providers...)
	return out
}

func validateProviderURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: provider url must be absolute, got %q", apperrors.ErrValidation, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: provider url must use http or https, got %q", apperrors.ErrValidation, u.Scheme)
	}
	return nil
}

func sortProviders(providers []domain.RateProvider) {
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Priority < providers[j].Priority
	})
}
