package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/multicurrency_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- MockCurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) UpsertCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) GetSettings(ctx context.Context) (*domain.CurrencySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurrencySettings), args.Error(1)
}

func (m *MockCurrencyRepository) SaveSettings(ctx context.Context, settings domain.CurrencySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// --- MockCompanyRepository ---

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindCompanyByCode(ctx context.Context, code string) (*domain.Company, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// --- MockAccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- MockTransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, companyID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionRepository) CreateTransactionWithEntries(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionHeader(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, companyID, transactionID string, from, to domain.TransactionStatus, userID string, now time.Time) error {
	args := m.Called(ctx, companyID, transactionID, from, to, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) RecordDecision(ctx context.Context, companyID string, from domain.TransactionStatus, approval domain.TransactionApproval) error {
	args := m.Called(ctx, companyID, from, approval)
	return args.Error(0)
}

// --- MockReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) SumIncomeExpenseByCurrency(ctx context.Context, companyID string, from, to *time.Time, statuses []domain.TransactionStatus) ([]portsrepo.IncomeExpenseRow, error) {
	args := m.Called(ctx, companyID, from, to, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.IncomeExpenseRow), args.Error(1)
}

func (m *MockReportingRepository) SumAccountByCurrency(ctx context.Context, companyID, accountID string, statuses []domain.TransactionStatus) (map[string]domain.CurrencySums, error) {
	args := m.Called(ctx, companyID, accountID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.CurrencySums), args.Error(1)
}

// --- MockPublisher ---

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// --- MockRateFetcher ---

type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) FetchLatest(ctx context.Context, provider domain.RateProvider, base string, symbols []string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, provider, base, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockRateFetcher) FetchHistorical(ctx context.Context, provider domain.RateProvider, base string, symbols []string, date time.Time) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, provider, base, symbols, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// eventOfType matches a published event by type.
func eventOfType(t domain.EventType) any {
	return mock.MatchedBy(func(e domain.Event) bool { return e.Type == t })
}

// recordingInvalidator counts cache invalidations.
type recordingInvalidator struct {
	calls []string
}

func (r *recordingInvalidator) Invalidate(companyID string) {
	r.calls = append(r.calls, companyID)
}
