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

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	companies   portssvc.CompanyReaderSvc
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithCompanyReader makes the service verify that the company exists before writes.
func WithCompanyReader(companies portssvc.CompanyReaderSvc) AccountServiceOption {
	return func(s *accountService) {
		s.companies = companies
	}
}

// WithAccountBase wires the shared BaseService (publisher, clock).
func WithAccountBase(base BaseService) AccountServiceOption {
	return func(s *accountService) {
		s.BaseService = base
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	accountType := domain.AccountType(strings.ToLower(req.AccountType))
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}

	// Parents are advisory grouping only; existence in the same company is the whole check.
	var parentID *string
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		if _, err := s.accountRepo.FindAccountByID(ctx, companyID, *req.ParentAccountID); err != nil {
			s.LogError(ctx, err, "Failed to find parent account",
				slog.String("parent_id", *req.ParentAccountID),
				slog.String("company_id", companyID))
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found in company", apperrors.ErrValidation, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		id := *req.ParentAccountID
		parentID = &id
	}

	now := s.CurrentTime()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		AccountType:     accountType,
		ParentAccountID: parentID,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_code", code),
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		account.Name = strings.TrimSpace(*req.Name)
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID == "" {
			account.ParentAccountID = nil
		} else {
			if *req.ParentAccountID == accountID {
				return nil, fmt.Errorf("%w: an account cannot be its own parent", apperrors.ErrValidation)
			}
			if _, err := s.accountRepo.FindAccountByID(ctx, companyID, *req.ParentAccountID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: parent account %s not found in company", apperrors.ErrValidation, *req.ParentAccountID)
				}
				return nil, fmt.Errorf("invalid parent account: %w", err)
			}
			id := *req.ParentAccountID
			account.ParentAccountID = &id
		}
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	account.LastUpdatedAt = s.CurrentTime()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID))
	return account, nil
}

func (s *accountService) requireCompany(ctx context.Context, companyID string) error {
	if s.companies == nil {
		return nil
	}
	_, err := s.companies.GetCompanyByID(ctx, companyID)
	return err
}
