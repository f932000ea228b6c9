package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/multicurrency_ledger/internal/models"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, company_id, code, name, account_type, parent_account_id, description,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", m.Code, mapPgError(err, "account code "+m.Code))
	}
	return nil
}

// FindAccountByID retrieves an account of a company by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_id = $2;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts of a company by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_id::text = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIDs)
	if err != nil {
		if isInvalidID(err) {
			return map[string]domain.Account{}, nil
		}
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}

	// Missing IDs are simply absent; the caller decides whether that is an error.
	return accountsMap, nil
}

// ListAccounts retrieves the chart of accounts of a company ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		if isInvalidID(err) {
			return []domain.Account{}, nil
		}
		return nil, fmt.Errorf("failed to query accounts for company %s: %w", companyID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for company %s: %w", companyID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for company %s: %w", companyID, rows.Err())
	}
	return accounts, nil
}

// UpdateAccount updates name, description and parent of an existing account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $3, description = $4, parent_account_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $1 AND account_id = $2;
	`
	// Code and type are immutable once entries may reference the account.
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.AccountID,
		m.Name,
		m.Description,
		m.ParentAccountID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, mapPgError(err, "account "+m.AccountID))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
