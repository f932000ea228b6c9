package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/google/uuid"
)

const defaultFiscalYearEnd = "12-31"

type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	currencies  portssvc.CurrencyReaderSvc
}

// CompanyServiceOption is a functional option for configuring the company service
type CompanyServiceOption func(*companyService)

// WithCompanyBase wires the shared BaseService (publisher, clock).
func WithCompanyBase(base BaseService) CompanyServiceOption {
	return func(s *companyService) {
		s.BaseService = base
	}
}

// NewCompanyService creates a new company service with the provided options
func NewCompanyService(repo portsrepo.CompanyRepositoryFacade, currencies portssvc.CurrencyReaderSvc, options ...CompanyServiceOption) portssvc.CompanySvcFacade {
	svc := &companyService{
		companyRepo: repo,
		currencies:  currencies,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: company name and code are required", apperrors.ErrValidation)
	}
	currency, err := s.currencies.GetCurrency(ctx, req.CurrencyCode)
	if err != nil {
		s.LogError(ctx, err, "Invalid company currency", slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.CurrencyCode)
	}

	existing, err := s.companyRepo.FindCompanyByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check company code", slog.String("code", code))
		return nil, fmt.Errorf("failed to check company code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("company code %s: %w", code, apperrors.ErrDuplicate)
	}

	fiscalYearEnd := req.FiscalYearEnd
	if fiscalYearEnd == "" {
		fiscalYearEnd = defaultFiscalYearEnd
	}

	now := s.CurrentTime()
	company := domain.Company{
		CompanyID:     uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Code:          code,
		TaxID:         req.TaxID,
		CurrencyCode:  currency.Code,
		FiscalYearEnd: fiscalYearEnd,
		Address:       dto.ToDomainAddress(req.Address),
		Status:        domain.CompanyActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Company created",
		slog.String("company_id", company.CompanyID),
		slog.String("code", code))
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	companies, err := s.companyRepo.ListCompanies(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, userID string) (*domain.Company, error) {
	company, err := s.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" && *req.Name != company.Name {
		company.Name = strings.TrimSpace(*req.Name)
		updated = true
	}
	if req.TaxID != nil && *req.TaxID != company.TaxID {
		company.TaxID = *req.TaxID
		updated = true
	}
	if req.FiscalYearEnd != nil && *req.FiscalYearEnd != company.FiscalYearEnd {
		company.FiscalYearEnd = *req.FiscalYearEnd
		updated = true
	}
	if req.Address != nil {
		company.Address = dto.ToDomainAddress(req.Address)
		updated = true
	}
	if req.Status != nil && domain.CompanyStatus(*req.Status) != company.Status {
		status := domain.CompanyStatus(*req.Status)
		if status != domain.CompanyActive && status != domain.CompanyInactive {
			return nil, fmt.Errorf("%w: unknown company status %q", apperrors.ErrValidation, *req.Status)
		}
		company.Status = status
		updated = true
	}

	if !updated {
		return company, nil
	}

	company.LastUpdatedAt = s.CurrentTime()
	company.LastUpdatedBy = userID
	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	s.LogInfo(ctx, "Company updated", slog.String("company_id", companyID))
	return company, nil
}
