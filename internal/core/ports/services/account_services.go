package services

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account of a company.
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the chart of accounts of a company ordered by code.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
