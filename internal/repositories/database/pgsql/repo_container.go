package pgsql

import (
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:     newPgxCompanyRepository(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CurrencyRepo:    newPgxCurrencyRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
	}
}
