package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/accounting"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// DefaultReportCacheTTL is how long a generated report is served from memory.
const DefaultReportCacheTTL = 5 * time.Minute

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	companies     portssvc.CompanyReaderSvc
	converter     exchange.Converter
	reportCache   *cache.Cache
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCacheTTL sets the expiry of cached reports.
func WithReportCacheTTL(ttl time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		if ttl > 0 {
			s.reportCache = cache.New(ttl, 2*ttl)
		}
	}
}

// WithReportingBase wires the shared BaseService (publisher, clock).
func WithReportingBase(base BaseService) ReportingServiceOption {
	return func(s *reportingService) {
		s.BaseService = base
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, companies portssvc.CompanyReaderSvc, converter exchange.Converter, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		accountRepo:   accountRepo,
		companies:     companies,
		converter:     converter,
		reportCache:   cache.New(DefaultReportCacheTTL, 2*DefaultReportCacheTTL),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// FinancialReport generates the income and expense report of a company in one display currency.
func (s *reportingService) FinancialReport(ctx context.Context, companyID string, params dto.FinancialReportParams) (*domain.FinancialReport, error) {
	company, err := s.companies.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	display := strings.ToUpper(params.Currency)
	if display == "" {
		display = company.CurrencyCode
	}
	statuses, err := parseStatuses(params.Statuses, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	key := reportCacheKey(companyID, "financial", display, formatDate(params.DateFrom), formatDate(params.DateTo), joinStatuses(statuses))
	if cached, found := s.reportCache.Get(key); found {
		s.LogDebug(ctx, "Serving financial report from cache", slog.String("company_id", companyID))
		report := cached.(domain.FinancialReport)
		return &report, nil
	}

	rows, err := s.reportingRepo.SumIncomeExpenseByCurrency(ctx, companyID, params.DateFrom, params.DateTo, statuses)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate income and expense",
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to generate financial report: %w", err)
	}

	report := domain.FinancialReport{
		CompanyID:       companyID,
		DateFrom:        params.DateFrom,
		DateTo:          params.DateTo,
		DisplayCurrency: display,
		ByCurrency:      make([]domain.CurrencyReportRow, 0, len(rows)),
		TotalIncome:     decimal.Zero,
		TotalExpense:    decimal.Zero,
		GeneratedAt:     s.CurrentTime(),
	}

	byCurrency := make(map[string]domain.CurrencySums, len(rows))
	for _, r := range rows {
		sums := byCurrency[r.Currency]
		sums.Debits = sums.Debits.Add(r.Debits)
		sums.Credits = sums.Credits.Add(r.Credits)
		byCurrency[r.Currency] = sums
	}

	for _, currency := range accounting.SortedCurrencies(byCurrency) {
		sums := byCurrency[currency]
		row := domain.CurrencyReportRow{
			Currency: currency,
			Income:   sums.Credits,
			Expense:  sums.Debits,
			Profit:   sums.Credits.Sub(sums.Debits),
		}

		rate, rateErr := s.converter.Convert(decimal.NewFromInt(1), currency, display)
		income, incomeErr := s.converter.Convert(row.Income, currency, display)
		expense, expenseErr := s.converter.Convert(row.Expense, currency, display)
		if rateErr != nil || incomeErr != nil || expenseErr != nil {
			report.Unconverted = append(report.Unconverted, currency)
			report.ByCurrency = append(report.ByCurrency, row)
			continue
		}

		row.Rate = &rate.Value
		row.ConvertedIncome = &income.Value
		row.ConvertedExpense = &expense.Value
		report.TotalIncome = report.TotalIncome.Add(income.Value)
		report.TotalExpense = report.TotalExpense.Add(expense.Value)
		report.ByCurrency = append(report.ByCurrency, row)
	}
	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)

	if len(report.Unconverted) > 0 {
		s.LogInfo(ctx, "Financial report excludes currencies without a rate",
			slog.String("company_id", companyID),
			slog.String("display_currency", display),
			slog.Any("unconverted", report.Unconverted))
	}

	s.reportCache.Set(key, report, cache.DefaultExpiration)
	return &report, nil
}

// AccountBalance returns the signed balance of one account per currency and in a display currency.
func (s *reportingService) AccountBalance(ctx context.Context, companyID, accountID string, params dto.AccountBalanceParams) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	display := strings.ToUpper(params.Currency)
	if display == "" {
		company, err := s.companies.GetCompanyByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		display = company.CurrencyCode
	}

	statuses := []domain.TransactionStatus{domain.StatusDraft, domain.StatusPending, domain.StatusApproved}
	if params.ApprovedOnly {
		statuses = []domain.TransactionStatus{domain.StatusApproved}
	}

	key := reportCacheKey(companyID, "balance", accountID, display, joinStatuses(statuses))
	if cached, found := s.reportCache.Get(key); found {
		balance := cached.(domain.AccountBalance)
		return &balance, nil
	}

	sums, err := s.reportingRepo.SumAccountByCurrency(ctx, companyID, accountID, statuses)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account entries",
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to calculate account balance: %w", err)
	}

	balance := domain.AccountBalance{
		AccountID:       accountID,
		AccountType:     account.AccountType,
		ByCurrency:      make(map[string]decimal.Decimal, len(sums)),
		DisplayCurrency: display,
		Total:           decimal.Zero,
		ApprovedOnly:    params.ApprovedOnly,
	}
	for _, currency := range accounting.SortedCurrencies(sums) {
		signed, err := signedBalance(accountID, account.AccountType, currency, sums[currency])
		if err != nil {
			return nil, err
		}
		balance.ByCurrency[currency] = signed

		converted, err := s.converter.Convert(signed, currency, display)
		if err != nil {
			balance.Unconverted = append(balance.Unconverted, currency)
			continue
		}
		balance.Total = balance.Total.Add(converted.Value)
	}

	s.reportCache.Set(key, balance, cache.DefaultExpiration)
	return &balance, nil
}

// Invalidate drops the cached reports of one company, or all of them when companyID is empty.
func (s *reportingService) Invalidate(companyID string) {
	if companyID == "" {
		s.reportCache.Flush()
		return
	}
	prefix := companyID + "|"
	for key := range s.reportCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.reportCache.Delete(key)
		}
	}
}

// signedBalance applies the normal-balance convention of the account type to debit and credit totals.
func signedBalance(accountID string, accountType domain.AccountType, currency string, sums domain.CurrencySums) (decimal.Decimal, error) {
	debit, err := accounting.CalculateSignedAmount(domain.TransactionEntry{
		AccountID: accountID, Amount: sums.Debits, CurrencyCode: currency, EntryType: domain.Debit,
	}, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	credit, err := accounting.CalculateSignedAmount(domain.TransactionEntry{
		AccountID: accountID, Amount: sums.Credits, CurrencyCode: currency, EntryType: domain.Credit,
	}, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	return debit.Add(credit), nil
}

func parseStatuses(raw []string, fallback ...domain.TransactionStatus) ([]domain.TransactionStatus, error) {
	if len(raw) == 0 {
		return fallback, nil
	}
	out := make([]domain.TransactionStatus, 0, len(raw))
	for _, r := range raw {
		status := domain.TransactionStatus(strings.ToLower(r))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, r)
		}
		out = append(out, status)
	}
	return out, nil
}

func reportCacheKey(companyID string, parts ...string) string {
	return companyID + "|" + strings.Join(parts, "|")
}

func joinStatuses(statuses []domain.TransactionStatus) string {
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ",")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
