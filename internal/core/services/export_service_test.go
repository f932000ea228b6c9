package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/core/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newExportFixture(t *testing.T) (portssvc.ExportService, *MockTransactionRepository) {
	t.Helper()
	table := exchange.NewDefaultRateTable()
	currencies := services.NewCurrencyService(table, new(MockCurrencyRepository), "USD")
	companyRepo := new(MockCompanyRepository)
	companyRepo.On("FindCompanyByID", mock.Anything, testCompanyID).
		Return(&domain.Company{CompanyID: testCompanyID, CurrencyCode: "USD"}, nil).Maybe()
	companies := services.NewCompanyService(companyRepo, currencies)

	txnRepo := new(MockTransactionRepository)
	accountRepo := new(MockAccountRepository)
	accountRepo.On("ListAccounts", mock.Anything, testCompanyID).Return([]domain.Account{
		{AccountID: "cash", Code: "1000", Name: "Cash"},
	}, nil).Maybe()

	txns := services.NewTransactionService(txnRepo, accountRepo, companies, currencies, exchange.NewResolver(table))
	return services.NewExportService(txns, accountRepo), txnRepo
}

func exportedTransaction() domain.Transaction {
	return domain.Transaction{
		TransactionID: "t1",
		CompanyID:     testCompanyID,
		Date:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Description:   "Yen purchase",
		Status:        domain.StatusApproved,
		Entries: []domain.TransactionEntry{
			{AccountID: "cash", Amount: decimal.RequireFromString("10.5"), CurrencyCode: "USD", EntryType: domain.Debit},
			{AccountID: "fx", Amount: decimal.RequireFromString("1559.25"), CurrencyCode: "JPY", EntryType: domain.Credit, Description: "rounded"},
		},
	}
}

func TestExportTransactions_CSV(t *testing.T) {
	svc, txnRepo := newExportFixture(t)
	txnRepo.On("ListTransactions", mock.Anything, testCompanyID, mock.Anything, mock.Anything, (*string)(nil)).
		Return([]domain.Transaction{exportedTransaction()}, nil, nil).Once()

	var buf bytes.Buffer
	contentType, err := svc.ExportTransactions(context.Background(), testCompanyID, dto.ExportParams{}, &buf)

	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Date", records[0][0])
	assert.Equal(t, []string{"2024-02-01", "Yen purchase", "approved", "1000 Cash", "debit", "10.5", "USD", ""}, records[1])
	assert.Equal(t, "fx", records[2][3], "unknown accounts fall back to the id")
	assert.Equal(t, "1559.25", records[2][5], "stored amounts are exported without currency rounding")
}

func TestExportTransactions_JSON(t *testing.T) {
	svc, txnRepo := newExportFixture(t)
	txnRepo.On("ListTransactions", mock.Anything, testCompanyID, mock.Anything, mock.Anything, (*string)(nil)).
		Return([]domain.Transaction{exportedTransaction()}, nil, nil).Once()

	var buf bytes.Buffer
	contentType, err := svc.ExportTransactions(context.Background(), testCompanyID, dto.ExportParams{Format: "json"}, &buf)

	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	var rows []services.ExportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "rounded", rows[1].EntryDescription)
	assert.Equal(t, "1559.25", rows[1].Amount)
}

func TestExportTransactions_UnsupportedFormat(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.ExportTransactions(context.Background(), testCompanyID, dto.ExportParams{Format: "xlsx"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
