package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its entries and approvals.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions (with entries) matching the filter's
	// search, date and status criteria, newest first. Amount bounds are not applied here.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, companyID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// CreateTransactionWithEntries persists a transaction and all of its entries in one
	// database transaction. Either everything is written or nothing is. When the commit
	// outcome cannot be determined the error wraps apperrors.ErrPartialWrite.
	CreateTransactionWithEntries(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionHeader updates description and date only.
	UpdateTransactionHeader(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionStatus moves a transaction from one status to another. It fails with
	// apperrors.ErrValidation when the stored status no longer equals from.
	UpdateTransactionStatus(ctx context.Context, companyID, transactionID string, from, to domain.TransactionStatus, userID string, now time.Time) error

	// RecordDecision stores an approval record and applies its status in one database transaction.
	RecordDecision(ctx context.Context, companyID string, from domain.TransactionStatus, approval domain.TransactionApproval) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
