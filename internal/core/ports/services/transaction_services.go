package services

import (
	"context"
	"io"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of transactions matching params.
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListAllTransactions returns every transaction matching the filter.
	ListAllTransactions(ctx context.Context, companyID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// CreateTransaction validates, balance-checks and atomically persists a draft transaction.
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, *domain.BalanceReport, error)

	// PreviewBalance runs the creation gate without persisting.
	PreviewBalance(ctx context.Context, companyID string, req dto.CreateTransactionRequest) (domain.BalanceReport, error)

	// UpdateTransaction changes description or date only.
	UpdateTransaction(ctx context.Context, companyID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)
}

// TransactionWorkflowSvc moves transactions through the approval workflow
type TransactionWorkflowSvc interface {
	SubmitTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor) (*domain.Transaction, error)
	ApproveTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor, comment string) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor, comment string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionWorkflowSvc
}

// ExportService renders transactions for download.
type ExportService interface {
	// ExportTransactions writes one row per entry in the given format and returns the content type.
	ExportTransactions(ctx context.Context, companyID string, params dto.ExportParams, w io.Writer) (string, error)
}
