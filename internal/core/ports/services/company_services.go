package services

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, userID string) (*domain.Company, error)
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
}
