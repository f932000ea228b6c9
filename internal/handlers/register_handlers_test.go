package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/handlers"
	"github.com/SscSPs/multicurrency_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, reporting *MockReportingService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{JWTSecret: testJWTSecret, IsProduction: true}
	handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{
		Account:     new(MockAccountService),
		Transaction: new(MockTransactionService),
		Export:      new(MockExportService),
		Reporting:   reporting,
	})
	return r
}

func TestRegisterRoutes_Health(t *testing.T) {
	r := newTestEngine(t, new(MockReportingService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRegisterRoutes_APIRequiresToken(t *testing.T) {
	r := newTestEngine(t, new(MockReportingService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies/c1/reports/financial", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRoutes_SwaggerHiddenInProduction(t *testing.T) {
	r := newTestEngine(t, new(MockReportingService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinancialReportRoute(t *testing.T) {
	reporting := new(MockReportingService)
	r := newTestEngine(t, reporting)
	converted := decimal.NewFromInt(720)
	reporting.On("FinancialReport", mock.Anything, "c1", mock.MatchedBy(func(p dto.FinancialReportParams) bool {
		return p.Currency == "CNY" && p.DateTo != nil
	})).Return(&domain.FinancialReport{
		DisplayCurrency: "CNY",
		ByCurrency: []domain.CurrencyReportRow{
			{Currency: "USD", Income: decimal.NewFromInt(100), ConvertedIncome: &converted},
		},
		TotalIncome: converted,
		NetProfit:   converted,
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/c1/reports/financial?currency=CNY&dateTo=2024-03-31", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken("u1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CNY", body["displayCurrency"])
	assert.Equal(t, "720", body["totalIncome"])
	reporting.AssertExpectations(t)
}

func TestFinancialReportRoute_UnknownCompany(t *testing.T) {
	reporting := new(MockReportingService)
	r := newTestEngine(t, reporting)
	reporting.On("FinancialReport", mock.Anything, "missing", mock.Anything).
		Return(nil, fmt.Errorf("company missing: %w", apperrors.ErrNotFound)).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/missing/reports/financial", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken("u1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
