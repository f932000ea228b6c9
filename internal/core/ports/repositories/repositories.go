package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	CompanyRepo     CompanyRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	CurrencyRepo    CurrencyRepositoryFacade
	ReportingRepo   ReportingRepository
}
