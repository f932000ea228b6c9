package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// SumIncomeExpenseByCurrency aggregates revenue credits and expense debits per entry currency.
func (r *reportingRepository) SumIncomeExpenseByCurrency(ctx context.Context, companyID string, from, to *time.Time, statuses []domain.TransactionStatus) ([]portsrepo.IncomeExpenseRow, error) {
	query := `
		SELECT
			e.currency_code,
			COALESCE(SUM(CASE WHEN a.account_type = 'expense' AND e.entry_type = 'debit' THEN e.amount ELSE 0 END), 0) AS expense,
			COALESCE(SUM(CASE WHEN a.account_type = 'revenue' AND e.entry_type = 'credit' THEN e.amount ELSE 0 END), 0) AS income
		FROM transaction_entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		JOIN accounts a ON e.account_id = a.account_id
		WHERE t.company_id = $1
			AND t.status = ANY($2)
			AND ($3::timestamptz IS NULL OR t.transaction_date >= $3)
			AND ($4::timestamptz IS NULL OR t.transaction_date < $4)
			AND a.account_type IN ('revenue', 'expense')
		GROUP BY e.currency_code
		ORDER BY e.currency_code
	`

	var fromArg, toArg *time.Time
	if from != nil {
		f := startOfDay(*from)
		fromArg = &f
	}
	if to != nil {
		t := startOfDay(*to).AddDate(0, 0, 1)
		toArg = &t
	}

	rows, err := r.Pool.Query(ctx, query, companyID, statusStrings(statuses), fromArg, toArg)
	if err != nil {
		if isInvalidID(err) {
			return []portsrepo.IncomeExpenseRow{}, nil
		}
		return nil, fmt.Errorf("error querying income and expense data: %w", err)
	}
	defer rows.Close()

	result := []portsrepo.IncomeExpenseRow{}
	for rows.Next() {
		var row portsrepo.IncomeExpenseRow
		if err := rows.Scan(&row.Currency, &row.Debits, &row.Credits); err != nil {
			return nil, fmt.Errorf("error scanning income and expense row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income and expense rows: %w", err)
	}
	return result, nil
}

// SumAccountByCurrency aggregates debits and credits of one account per entry currency.
func (r *reportingRepository) SumAccountByCurrency(ctx context.Context, companyID, accountID string, statuses []domain.TransactionStatus) (map[string]domain.CurrencySums, error) {
	query := `
		SELECT
			e.currency_code,
			COALESCE(SUM(CASE WHEN e.entry_type = 'debit' THEN e.amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN e.entry_type = 'credit' THEN e.amount ELSE 0 END), 0) AS total_credit
		FROM transaction_entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		WHERE t.company_id = $1
			AND e.account_id = $2
			AND t.status = ANY($3)
		GROUP BY e.currency_code
	`

	rows, err := r.Pool.Query(ctx, query, companyID, accountID, statusStrings(statuses))
	if err != nil {
		if isInvalidID(err) {
			return map[string]domain.CurrencySums{}, nil
		}
		return nil, fmt.Errorf("error querying balance of account %s: %w", accountID, err)
	}
	defer rows.Close()

	result := make(map[string]domain.CurrencySums)
	for rows.Next() {
		var currency string
		var debit, credit decimal.Decimal
		if err := rows.Scan(&currency, &debit, &credit); err != nil {
			return nil, fmt.Errorf("error scanning account balance row: %w", err)
		}
		result[currency] = domain.CurrencySums{Debits: debit, Credits: credit}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account balance rows: %w", err)
	}
	return result, nil
}
