package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/core/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCompanyRepository
	service  portssvc.CompanySvcFacade
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCompanyRepository)
	currencies := services.NewCurrencyService(exchange.NewDefaultRateTable(), new(MockCurrencyRepository), "USD")
	suite.service = services.NewCompanyService(suite.mockRepo, currencies)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_Success() {
	ctx := context.Background()
	req := dto.CreateCompanyRequest{
		Name:         "Acme Trading",
		Code:         "ACME",
		CurrencyCode: "CNY",
		Address:      &dto.AddressDTO{City: "Shanghai", Country: "CN"},
	}
	suite.mockRepo.On("FindCompanyByCode", ctx, "ACME").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCompany", ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.Code == "ACME" && c.CurrencyCode == "CNY" && c.Status == domain.CompanyActive
	})).Return(nil).Once()

	company, err := suite.service.CreateCompany(ctx, req, "founder")

	suite.Require().NoError(err)
	suite.NotEmpty(company.CompanyID)
	suite.Equal("12-31", company.FiscalYearEnd)
	suite.Equal("Shanghai", company.Address.City)
	suite.Equal("founder", company.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_DuplicateCode() {
	ctx := context.Background()
	suite.mockRepo.On("FindCompanyByCode", ctx, "ACME").Return(&domain.Company{CompanyID: "c-0", Code: "ACME"}, nil).Once()

	_, err := suite.service.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Acme", Code: "ACME", CurrencyCode: "USD"}, "u")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_UnknownCurrency() {
	_, err := suite.service.CreateCompany(context.Background(), dto.CreateCompanyRequest{Name: "Acme", Code: "ACME", CurrencyCode: "XYZ"}, "u")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCompanyByCode", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestListCompanies_DefaultsLimit() {
	ctx := context.Background()
	suite.mockRepo.On("ListCompanies", ctx, 20, 0).Return(nil, nil).Once()

	companies, err := suite.service.ListCompanies(ctx, 0, -5)

	suite.Require().NoError(err)
	suite.NotNil(companies)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateCompany() {
	ctx := context.Background()
	suite.mockRepo.On("FindCompanyByID", ctx, testCompanyID).
		Return(&domain.Company{CompanyID: testCompanyID, Name: "Old", Status: domain.CompanyActive}, nil).Once()
	suite.mockRepo.On("UpdateCompany", ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.Name == "New" && c.Status == domain.CompanyInactive
	})).Return(nil).Once()

	name, status := "New", "inactive"
	company, err := suite.service.UpdateCompany(ctx, testCompanyID, dto.UpdateCompanyRequest{Name: &name, Status: &status}, "u")

	suite.Require().NoError(err)
	suite.Equal(domain.CompanyInactive, company.Status)
}

func (suite *CompanyServiceTestSuite) TestUpdateCompany_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("FindCompanyByID", ctx, testCompanyID).
		Return(&domain.Company{CompanyID: testCompanyID, Name: "Old"}, nil).Once()
	suite.mockRepo.On("UpdateCompany", ctx, mock.Anything).Return(assert.AnError).Once()

	name := "New"
	_, err := suite.service.UpdateCompany(ctx, testCompanyID, dto.UpdateCompanyRequest{Name: &name}, "u")

	suite.ErrorIs(err, assert.AnError)
}

func TestCompanyService(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
