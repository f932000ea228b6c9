package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// generateTestToken creates a signed JWT carrying userID and roles.
func generateTestToken(userID string, roles ...string) string {
	return signTestToken(userID, time.Now().Add(time.Hour), roles...)
}

func signTestToken(userID string, expiresAt time.Time, roles ...string) string {
	claims := struct {
		jwt.RegisteredClaims
		Roles []string `json:"roles,omitempty"`
	}{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ledger-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-2 * time.Hour)),
		},
		Roles: roles,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) FinancialReport(ctx context.Context, companyID string, params dto.FinancialReportParams) (*domain.FinancialReport, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialReport), args.Error(1)
}

func (m *MockReportingService) AccountBalance(ctx context.Context, companyID, accountID string, params dto.AccountBalanceParams) (*domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockReportingService) Invalidate(companyID string) {
	m.Called(companyID)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) transactionResult(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	return m.transactionResult(m.Called(ctx, companyID, transactionID))
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) ListAllTransactions(ctx context.Context, companyID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, *domain.BalanceReport, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	var report *domain.BalanceReport
	if args.Get(1) != nil {
		report = args.Get(1).(*domain.BalanceReport)
	}
	return txn, report, args.Error(2)
}

func (m *MockTransactionService) PreviewBalance(ctx context.Context, companyID string, req dto.CreateTransactionRequest) (domain.BalanceReport, error) {
	args := m.Called(ctx, companyID, req)
	return args.Get(0).(domain.BalanceReport), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, companyID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	return m.transactionResult(m.Called(ctx, companyID, transactionID, req, userID))
}

func (m *MockTransactionService) SubmitTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	return m.transactionResult(m.Called(ctx, companyID, transactionID, actor))
}

func (m *MockTransactionService) ApproveTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor, comment string) (*domain.Transaction, error) {
	return m.transactionResult(m.Called(ctx, companyID, transactionID, actor, comment))
}

func (m *MockTransactionService) RejectTransaction(ctx context.Context, companyID, transactionID string, actor domain.Actor, comment string) (*domain.Transaction, error) {
	return m.transactionResult(m.Called(ctx, companyID, transactionID, actor, comment))
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock ExportService ---
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportTransactions(ctx context.Context, companyID string, params dto.ExportParams, w io.Writer) (string, error) {
	args := m.Called(ctx, companyID, params, w)
	if body, ok := args.Get(1).(string); ok && body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.String(0), args.Error(2)
}

var _ portssvc.ExportService = (*MockExportService)(nil)
