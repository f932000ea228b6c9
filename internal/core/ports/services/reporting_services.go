package services

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
)

// ReportingService defines the interface for generating financial reports
type ReportingService interface {
	// FinancialReport consolidates per-currency income and expense into one display currency.
	FinancialReport(ctx context.Context, companyID string, params dto.FinancialReportParams) (*domain.FinancialReport, error)

	// AccountBalance returns the signed per-currency and consolidated balance of an account.
	AccountBalance(ctx context.Context, companyID, accountID string, params dto.AccountBalanceParams) (*domain.AccountBalance, error)

	// Invalidate drops cached reports. An empty companyID drops all of them.
	Invalidate(companyID string)
}
