package repositories

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindCompanyByCode retrieves a company by its unique code.
	FindCompanyByCode(ctx context.Context, code string) (*domain.Company, error)

	// ListCompanies retrieves a page of companies ordered by name.
	ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company. A duplicate code yields apperrors.ErrDuplicate.
	SaveCompany(ctx context.Context, company domain.Company) error

	// UpdateCompany updates an existing company's details.
	UpdateCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
