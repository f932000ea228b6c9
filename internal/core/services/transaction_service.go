package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/platform/metrics"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/accounting"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxScanPages bounds how many repository pages one amount-filtered listing reads.
const maxScanPages = 50

type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountReader
	companies   portssvc.CompanyReaderSvc
	currencies  portssvc.CurrencyReaderSvc
	converter   exchange.Converter
	cache       cacheInvalidator
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionCacheInvalidator flushes the company's cached reports after every write.
func WithTransactionCacheInvalidator(c cacheInvalidator) TransactionServiceOption {
	return func(s *transactionService) {
		s.cache = c
	}
}

// WithTransactionBase wires the shared BaseService (publisher, clock).
func WithTransactionBase(base BaseService) TransactionServiceOption {
	return func(s *transactionService) {
		s.BaseService = base
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	companies portssvc.CompanyReaderSvc,
	currencies portssvc.CurrencyReaderSvc,
	converter exchange.Converter,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		companies:   companies,
		currencies:  currencies,
		converter:   converter,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// balanceGate runs structural validation and the balance check of a request.
func (s *transactionService) balanceGate(ctx context.Context, companyID string, req dto.CreateTransactionRequest) ([]domain.TransactionEntry, domain.BalanceReport, error) {
	entries := req.ToDomainEntries()
	for i := range entries {
		entries[i].CurrencyCode = strings.ToUpper(strings.TrimSpace(entries[i].CurrencyCode))
		entries[i].EntryType = domain.EntryType(strings.ToLower(string(entries[i].EntryType)))
	}
	if err := accounting.ValidateEntries(entries); err != nil {
		return nil, domain.BalanceReport{}, err
	}
	for _, code := range uniqueStrings(entryCurrencies(entries)) {
		if _, err := s.currencies.GetCurrency(ctx, code); err != nil {
			return nil, domain.BalanceReport{}, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, code)
		}
	}

	company, err := s.companies.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, domain.BalanceReport{}, err
	}

	reference := strings.ToUpper(req.ReferenceCurrency)
	if reference == "" {
		reference = company.CurrencyCode
	}
	if reference == "" {
		reference = s.currencies.BaseCurrency()
	}
	refCurrency, err := s.currencies.GetCurrency(ctx, reference)
	if err != nil {
		return nil, domain.BalanceReport{}, fmt.Errorf("%w: unknown reference currency %s", apperrors.ErrValidation, reference)
	}

	report, err := accounting.RequireBalanced(entries, reference, s.converter, accounting.DefaultTolerance(*refCurrency))
	return entries, report, err
}

func (s *transactionService) PreviewBalance(ctx context.Context, companyID string, req dto.CreateTransactionRequest) (domain.BalanceReport, error) {
	_, report, err := s.balanceGate(ctx, companyID, req)
	var unbalanced *accounting.UnbalancedError
	if errors.As(err, &unbalanced) {
		return report, nil
	}
	return report, err
}

func (s *transactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, *domain.BalanceReport, error) {
	entries, report, err := s.balanceGate(ctx, companyID, req)
	if err != nil {
		var unbalanced *accounting.UnbalancedError
		if errors.As(err, &unbalanced) {
			metrics.UnbalancedRejections.Inc()
			s.LogInfo(ctx, "Rejected unbalanced transaction",
				slog.String("company_id", companyID),
				slog.String("difference", report.Difference.String()),
				slog.String("reference_currency", report.ReferenceCurrency),
				slog.Any("unconverted_entries", report.Unconverted))
			return nil, &report, err
		}
		return nil, nil, err
	}

	accountIDs := uniqueStrings(entryAccounts(entries))
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts", slog.String("company_id", companyID))
		return nil, &report, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, &report, fmt.Errorf("%w: account %s not found in company %s", apperrors.ErrValidation, id, companyID)
		}
	}

	now := s.CurrentTime()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		CompanyID:     companyID,
		Date:          req.Date.UTC(),
		Description:   strings.TrimSpace(req.Description),
		Status:        domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	for i := range entries {
		entries[i].EntryID = uuid.NewString()
		entries[i].TransactionID = txn.TransactionID
	}
	txn.Entries = entries

	if err := s.txnRepo.CreateTransactionWithEntries(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("company_id", companyID))
		return nil, &report, err
	}

	metrics.TransactionsCreated.Inc()
	s.invalidate(companyID)
	s.Publish(ctx, domain.EventTransactionCreated, companyID, txn.TransactionID, creatorUserID, dto.ToTransactionResponse(&txn))
	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("company_id", companyID),
		slog.Int("entries", len(entries)),
		slog.Bool("multi_currency", txn.IsMultiCurrency()))
	return &txn, &report, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter, err := FilterFromParams(params)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAmountCurrency(ctx, companyID, &filter); err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	if !filter.HasAmountBounds() {
		txns, next, err := s.txnRepo.ListTransactions(ctx, companyID, filter, limit, params.NextToken)
		if err != nil {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("company_id", companyID))
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		return &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns), NextToken: next}, nil
	}

	// Amount bounds depend on conversion, so pages are read until enough rows match.
	matched := make([]domain.Transaction, 0, limit)
	token := params.NextToken
	for page := 0; page < maxScanPages; page++ {
		txns, pageNext, err := s.txnRepo.ListTransactions(ctx, companyID, filter, limit, token)
		if err != nil {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("company_id", companyID))
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		for i, t := range txns {
			if !s.matchesAmount(t, filter) {
				continue
			}
			matched = append(matched, t)
			if len(matched) == limit {
				var next *string
				if i < len(txns)-1 || pageNext != nil {
					tok := pagination.EncodeToken(t.Date, t.CreatedAt)
					next = &tok
				}
				return &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(matched), NextToken: next}, nil
			}
		}
		if pageNext == nil {
			return &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(matched)}, nil
		}
		token = pageNext
	}
	// Scan budget exhausted; the caller continues from where reading stopped.
	return &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(matched), NextToken: token}, nil
}

func (s *transactionService) ListAllTransactions(ctx context.Context, companyID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if err := s.resolveAmountCurrency(ctx, companyID, &filter); err != nil {
		return nil, err
	}

	var (
		out   []domain.Transaction
		token *string
	)
	for {
		txns, next, err := s.txnRepo.ListTransactions(ctx, companyID, filter, pagination.MaxLimit, token)
		if err != nil {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("company_id", companyID))
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		for _, t := range txns {
			if s.matchesAmount(t, filter) {
				out = append(out, t)
			}
		}
		if next == nil {
			return out, nil
		}
		token = next
	}
}

func (s *transactionService) UpdateTransaction(ctx context.Context, companyID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s transactions cannot be edited", apperrors.ErrValidation, txn.Status)
	}

	updated := false
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", apperrors.ErrValidation)
		}
		if description != txn.Description {
			txn.Description = description
			updated = true
		}
	}
	if req.Date != nil && !req.Date.UTC().Equal(txn.Date) {
		txn.Date = req.Date.UTC()
		updated = true
	}
	if !updated {
		return txn, nil
	}

	txn.LastUpdatedAt = s.CurrentTime()
	txn.LastUpdatedBy = userID
	if err := s.txnRepo.UpdateTransactionHeader(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.invalidate(companyID)
	s.Publish(ctx, domain.EventTransactionUpdated, companyID, transactionID, userID, map[string]any{
		"date":        txn.Date,
		"description": txn.Description,
	})
	return txn, nil
}

func (s *transactionService) SubmitTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateTransition(txn.Status, domain.StatusPending); err != nil {
		return nil, err
	}

	now := s.CurrentTime()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, companyID, transactionID, txn.Status, domain.StatusPending, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to submit transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	txn.Status = domain.StatusPending
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor.UserID

	s.invalidate(companyID)
	s.Publish(ctx, domain.EventTransactionSubmitted, companyID, transactionID, actor.UserID, nil)
	s.LogInfo(ctx, "Transaction submitted for approval", slog.String("transaction_id", transactionID))
	return txn, nil
}

func (s *transactionService) ApproveTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor, comment string) (*domain.Transaction, error) {
	return s.decide(ctx, companyID, transactionID, actor, domain.StatusApproved, comment)
}

func (s *transactionService) RejectTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor, comment string) (*domain.Transaction, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: a comment is required to reject a transaction", apperrors.ErrValidation)
	}
	return s.decide(ctx, companyID, transactionID, actor, domain.StatusRejected, comment)
}

func (s *transactionService) decide(ctx context.Context, companyID, transactionID string, actor domain.Actor, to domain.TransactionStatus, comment string) (*domain.Transaction, error) {
	if err := s.RequirePrivileged(ctx, actor, string(to)); err != nil {
		return nil, err
	}
	txn, err := s.GetTransaction(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateTransition(txn.Status, to); err != nil {
		return nil, err
	}

	now := s.CurrentTime()
	approval := domain.TransactionApproval{
		ApprovalID:    uuid.NewString(),
		TransactionID: transactionID,
		UserID:        actor.UserID,
		Role:          domain.PrimaryRole(actor.Roles),
		Status:        to,
		Comment:       strings.TrimSpace(comment),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.txnRepo.RecordDecision(ctx, companyID, txn.Status, approval); err != nil {
		s.LogError(ctx, err, "Failed to record transaction decision",
			slog.String("transaction_id", transactionID),
			slog.String("decision", string(to)))
		return nil, err
	}
	txn.Status = to
	txn.Approvals = append(txn.Approvals, approval)
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor.UserID

	eventType := domain.EventTransactionApproved
	if to == domain.StatusRejected {
		eventType = domain.EventTransactionRejected
	}
	s.invalidate(companyID)
	s.Publish(ctx, eventType, companyID, transactionID, actor.UserID, map[string]any{
		"role":    approval.Role,
		"comment": approval.Comment,
	})
	s.LogInfo(ctx, "Transaction decision recorded",
		slog.String("transaction_id", transactionID),
		slog.String("decision", string(to)),
		slog.String("role", string(approval.Role)))
	return txn, nil
}

// matchesAmount compares the transaction's debits, converted into the filter
// currency, with the filter bounds. Transactions that cannot be converted never match.
func (s *transactionService) matchesAmount(t domain.Transaction, f domain.TransactionFilter) bool {
	if !f.HasAmountBounds() {
		return true
	}
	total := decimal.Zero
	for currency, amount := range t.DebitsByCurrency() {
		res, err := s.converter.Convert(amount, currency, f.AmountCurrency)
		if err != nil {
			return false
		}
		total = total.Add(res.Value)
	}
	if f.MinAmount != nil && total.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && total.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

func (s *transactionService) resolveAmountCurrency(ctx context.Context, companyID string, f *domain.TransactionFilter) error {
	if !f.HasAmountBounds() || f.AmountCurrency != "" {
		return nil
	}
	company, err := s.companies.GetCompanyByID(ctx, companyID)
	if err != nil {
		return err
	}
	f.AmountCurrency = company.CurrencyCode
	return nil
}

func (s *transactionService) invalidate(companyID string) {
	if s.cache != nil {
		s.cache.Invalidate(companyID)
	}
}

// FilterFromParams converts listing query parameters into a domain filter.
func FilterFromParams(params dto.ListTransactionsParams) (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{
		Search:         strings.TrimSpace(params.Search),
		DateFrom:       params.DateFrom,
		DateTo:         params.DateTo,
		AmountCurrency: strings.ToUpper(params.AmountCurrency),
	}
	for _, raw := range params.Statuses {
		status := domain.TransactionStatus(strings.ToLower(raw))
		if !status.Valid() {
			return filter, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if params.MinAmount != "" {
		v, err := decimal.NewFromString(params.MinAmount)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid minAmount %q", apperrors.ErrValidation, params.MinAmount)
		}
		filter.MinAmount = &v
	}
	if params.MaxAmount != "" {
		v, err := decimal.NewFromString(params.MaxAmount)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid maxAmount %q", apperrors.ErrValidation, params.MaxAmount)
		}
		filter.MaxAmount = &v
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return filter, fmt.Errorf("%w: minAmount is greater than maxAmount", apperrors.ErrValidation)
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return filter, fmt.Errorf("%w: dateFrom is after dateTo", apperrors.ErrValidation)
	}
	return filter, nil
}

func entryAccounts(entries []domain.TransactionEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.AccountID
	}
	return out
}

func entryCurrencies(entries []domain.TransactionEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.CurrencyCode
	}
	return out
}

func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	var out []string
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
