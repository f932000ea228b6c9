package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/handlers"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockAccountService   *MockAccountService
	mockReportingService *MockReportingService
	companyID            string
	userID               string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret, ""))

	suite.mockAccountService = new(MockAccountService)
	suite.mockReportingService = new(MockReportingService)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	company := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterAccountRoutes(company, suite.mockAccountService, suite.mockReportingService)
}

func (suite *AccountHandlerTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, fmt.Sprintf("/api/v1/companies/%s%s", suite.companyID, path), &buf)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "asset"}
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.companyID, req, suite.userID).
		Return(&domain.Account{AccountID: "acc-1", CompanyID: suite.companyID, Code: "1000", Name: "Cash", AccountType: domain.Asset}, nil).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("acc-1", resp.AccountID)
	suite.Equal("asset", resp.AccountType)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	w := suite.do(http.MethodPost, "/accounts", map[string]string{"code": "1000", "name": "Cash", "accountType": "cash"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.companyID, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("account code 1000: %w", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/accounts", dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "asset"})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "account code 1000")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, suite.companyID, "missing").
		Return(nil, apperrors.NewNotFoundError("account missing")).Once()

	w := suite.do(http.MethodGet, "/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_InternalErrorIsMasked() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, suite.companyID).
		Return(nil, fmt.Errorf("connection reset by peer")).Once()

	w := suite.do(http.MethodGet, "/accounts", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error":"Failed to list accounts"}`, w.Body.String())
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance() {
	suite.mockReportingService.On("AccountBalance", mock.Anything, suite.companyID, "acc-1",
		dto.AccountBalanceParams{Currency: "EUR", ApprovedOnly: true}).
		Return(&domain.AccountBalance{
			AccountID:       "acc-1",
			AccountType:     domain.Asset,
			ByCurrency:      map[string]decimal.Decimal{"USD": decimal.NewFromInt(300)},
			DisplayCurrency: "EUR",
			Total:           decimal.RequireFromString("275.5"),
			ApprovedOnly:    true,
		}, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/acc-1/balance?currency=EUR&approvedOnly=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("275.5", resp["total"])
	suite.Equal("EUR", resp["displayCurrency"])
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/"+suite.companyID+"/accounts", nil)
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestExpiredToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/"+suite.companyID+"/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(suite.userID, time.Now().Add(-time.Hour)))
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Token has expired")
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
