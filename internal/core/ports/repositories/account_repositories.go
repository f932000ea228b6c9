package repositories

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account of a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts of a company keyed by ID. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts of a company ordered by code.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A code already used in the company yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
