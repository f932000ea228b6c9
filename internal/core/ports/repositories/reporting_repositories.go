package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// IncomeExpenseRow is the revenue credits and expense debits of one currency.
type IncomeExpenseRow struct {
	Currency string
	domain.CurrencySums
}

// ReportingRepository defines aggregate queries used by reports
type ReportingRepository interface {
	// SumIncomeExpenseByCurrency returns, per entry currency, credits to revenue accounts
	// (as Credits) and debits to expense accounts (as Debits) for transactions dated in
	// [from, to] whose status is in statuses. Nil bounds are open.
	SumIncomeExpenseByCurrency(ctx context.Context, companyID string, from, to *time.Time, statuses []domain.TransactionStatus) ([]IncomeExpenseRow, error)

	// SumAccountByCurrency returns debit and credit totals per currency for one account.
	SumAccountByCurrency(ctx context.Context, companyID, accountID string, statuses []domain.TransactionStatus) (map[string]domain.CurrencySums, error)
}
