package services

import (
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	"github.com/SscSPs/multicurrency_ledger/internal/core/ports/events"
	"github.com/SscSPs/multicurrency_ledger/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/platform/config"
)

// Engine bundles the process-wide currency engine and outbound adapters shared by the services.
type Engine struct {
	Table     *exchange.RateTable
	Pivots    []string // Tried before the current base currency
	OnResolve func(domain.ConversionMethod)
	Fetcher   providers.RateFetcher
	Publisher events.Publisher
	Providers []domain.RateProvider // Seed list used until settings are persisted
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, engine Engine) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	base := BaseService{Publisher: engine.Publisher}

	container.Currency = NewCurrencyService(engine.Table, repos.CurrencyRepo, cfg.BaseCurrency,
		WithCurrencyBase(base),
		WithSeedProviders(engine.Providers),
	)
	resolver := NewResolver(engine, container.Currency)
	container.Company = NewCompanyService(repos.CompanyRepo, container.Currency, WithCompanyBase(base))
	container.Account = NewAccountService(repos.AccountRepo,
		WithCompanyReader(container.Company),
		WithAccountBase(base),
	)

	// Reporting owns the cache every writer invalidates, so it is built before them.
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo, container.Company, resolver,
		WithReportCacheTTL(cfg.ReportCacheTTL),
		WithReportingBase(base),
	)

	container.ExchangeRate = NewExchangeRateService(engine.Table, resolver,
		WithRateCacheInvalidator(container.Reporting),
		WithExchangeRateBase(base),
	)
	container.RateRefresh = NewRateRefresher(engine.Table, container.Currency, engine.Fetcher,
		WithFetchTimeout(cfg.RateFetchTimeout),
		WithRefreshInterval(cfg.RateRefreshInterval),
		WithRefreshCacheInvalidator(container.Reporting),
		WithRefresherBase(base),
	)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, container.Company, container.Currency, resolver,
		WithTransactionCacheInvalidator(container.Reporting),
		WithTransactionBase(base),
	)
	container.Export = NewExportService(container.Transaction, repos.AccountRepo)

	return container
}

// NewResolver builds the conversion resolver over the engine's rate table. The
// currency service's live base currency is always tried as the last pivot, so
// rates refreshed against a new base still bridge cross pairs.
func NewResolver(engine Engine, currencies portssvc.CurrencyReaderSvc) *exchange.Resolver {
	return exchange.NewResolver(engine.Table,
		exchange.WithPivots(engine.Pivots...),
		exchange.WithBasePivot(currencies.BaseCurrency),
		exchange.WithResolveHook(engine.OnResolve),
	)
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencySvcFacade     = (*currencyService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)
	_ portssvc.RateRefresherSvc      = (*rateRefresher)(nil)
	_ portssvc.CompanySvcFacade      = (*companyService)(nil)
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.TransactionSvcFacade  = (*transactionService)(nil)
	_ portssvc.ReportingService      = (*reportingService)(nil)
	_ portssvc.ExportService         = (*exportService)(nil)
)
