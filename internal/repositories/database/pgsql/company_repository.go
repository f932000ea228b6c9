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

const companyColumns = `company_id, name, code, tax_id, currency_code, fiscal_year_end, address, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func scanCompany(row pgx.Row) (domain.Company, error) {
	var m models.Company
	if err := row.Scan(
		&m.CompanyID,
		&m.Name,
		&m.Code,
		&m.TaxID,
		&m.CurrencyCode,
		&m.FiscalYearEnd,
		&m.Address,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	); err != nil {
		return domain.Company{}, err
	}
	return mapping.ToDomainCompany(m)
}

// SaveCompany inserts a new company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m, err := mapping.ToModelCompany(company)
	if err != nil {
		return err
	}
	query := `INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err = r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.Code,
		m.TaxID,
		m.CurrencyCode,
		m.FiscalYearEnd,
		m.Address,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save company %s: %w", m.Code, mapPgError(err, "company code "+m.Code))
	}
	return nil
}

// FindCompanyByID retrieves a company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1;`
	company, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}
	return &company, nil
}

// FindCompanyByCode retrieves a company by its unique code.
func (r *PgxCompanyRepository) FindCompanyByCode(ctx context.Context, code string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE code = $1;`
	company, err := scanCompany(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by code %s: %w", code, err)
	}
	return &company, nil
}

// ListCompanies retrieves a page of companies ordered by name.
func (r *PgxCompanyRepository) ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name, code LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}
	return companies, nil
}

// UpdateCompany updates the mutable fields of a company. Code and currency never change.
func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	m, err := mapping.ToModelCompany(company)
	if err != nil {
		return err
	}
	query := `
		UPDATE companies
		SET name = $2, tax_id = $3, fiscal_year_end = $4, address = $5, status = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.TaxID,
		m.FiscalYearEnd,
		m.Address,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update company %s: %w", m.CompanyID, mapPgError(err, "company "+m.CompanyID))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
