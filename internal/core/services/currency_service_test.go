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

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	table    *exchange.RateTable
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.table = exchange.NewDefaultRateTable()
	suite.service = services.NewCurrencyService(suite.table, suite.mockRepo, "USD")
}

func int32Ptr(v int32) *int32 { return &v }
func intPtr(v int) *int       { return &v }

func (suite *CurrencyServiceTestSuite) TestRegisterCurrency_Success() {
	ctx := context.Background()
	req := dto.RegisterCurrencyRequest{Code: "inr", Name: "Indian Rupee", Symbol: "₹", Decimals: int32Ptr(2)}

	suite.mockRepo.On("UpsertCurrency", mock.Anything, mock.MatchedBy(func(c domain.Currency) bool {
		return c.Code == "INR" && c.Active && c.Decimals == 2
	})).Return(nil).Once()
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.MatchedBy(func(s domain.CurrencySettings) bool {
		return s.LastUpdatedBy == "user-1" && len(s.AvailableCurrencies) == 13
	})).Return(nil).Once()

	currency, err := suite.service.RegisterCurrency(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("INR", currency.Code)
	got, err := suite.service.GetCurrency(ctx, "INR")
	suite.Require().NoError(err)
	suite.Equal("Indian Rupee", got.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestRegisterCurrency_Invalid() {
	ctx := context.Background()

	_, err := suite.service.RegisterCurrency(ctx, dto.RegisterCurrencyRequest{Code: "INRX", Name: "x", Symbol: "x", Decimals: int32Ptr(2)}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.RegisterCurrency(ctx, dto.RegisterCurrencyRequest{Code: "INR", Name: "x", Symbol: "x", Decimals: int32Ptr(19)}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestRegisterCurrency_PersistError() {
	ctx := context.Background()
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("UpsertCurrency", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := suite.service.RegisterCurrency(ctx, dto.RegisterCurrencyRequest{Code: "INR", Name: "x", Symbol: "x", Decimals: int32Ptr(2)}, "u")

	suite.ErrorIs(err, assert.AnError)
	_, ok := suite.table.Currency("INR")
	suite.False(ok, "currency must not be registered when persistence fails")
}

func (suite *CurrencyServiceTestSuite) TestRegisterCurrency_SettingsSaveError() {
	ctx := context.Background()
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := suite.service.RegisterCurrency(ctx, dto.RegisterCurrencyRequest{Code: "INR", Name: "x", Symbol: "x", Decimals: int32Ptr(2)}, "u")

	suite.ErrorIs(err, assert.AnError)
	_, err = suite.service.GetCurrency(ctx, "INR")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestDeactivateCurrency_KeepsRates() {
	ctx := context.Background()
	suite.mockRepo.On("UpsertCurrency", mock.Anything, mock.MatchedBy(func(c domain.Currency) bool {
		return c.Code == "EUR" && !c.Active
	})).Return(nil).Once()
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.Anything).Return(nil).Once()

	suite.Require().NoError(suite.service.DeactivateCurrency(ctx, "EUR", "u"))

	c, err := suite.service.GetCurrency(ctx, "EUR")
	suite.Require().NoError(err)
	suite.False(c.Active)
	_, ok := suite.table.Latest("USD", "EUR")
	suite.True(ok)
}

func (suite *CurrencyServiceTestSuite) TestDeactivateCurrency_BaseRejected() {
	err := suite.service.DeactivateCurrency(context.Background(), "USD", "u")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestDeactivateCurrency_Unknown() {
	err := suite.service.DeactivateCurrency(context.Background(), "XYZ", "u")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency() {
	ctx := context.Background()
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.MatchedBy(func(s domain.CurrencySettings) bool {
		return s.BaseCurrency == "EUR"
	})).Return(nil).Once()

	suite.Require().NoError(suite.service.SetBaseCurrency(ctx, "eur", "u"))
	suite.Equal("EUR", suite.service.BaseCurrency())

	suite.ErrorIs(suite.service.SetBaseCurrency(ctx, "XYZ", "u"), apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestSetBaseCurrency_RollsBackOnSaveError() {
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := suite.service.SetBaseCurrency(context.Background(), "EUR", "u")

	suite.ErrorIs(err, assert.AnError)
	suite.Equal("USD", suite.service.BaseCurrency())
}

func (suite *CurrencyServiceTestSuite) TestSetUpdateFrequency() {
	ctx := context.Background()
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.Anything).Return(nil).Once()

	suite.Require().NoError(suite.service.SetUpdateFrequency(ctx, domain.FrequencyWeekly, "u"))
	suite.Equal(domain.FrequencyWeekly, suite.service.GetSettings(ctx).UpdateFrequency)

	suite.ErrorIs(suite.service.SetUpdateFrequency(ctx, "hourly", "u"), apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestProviders_SortedAndUnique() {
	ctx := context.Background()
	suite.mockRepo.On("SaveSettings", mock.Anything, mock.Anything).Return(nil)

	suite.Require().NoError(suite.service.AddProvider(ctx, dto.AddProviderRequest{Name: "backup", Priority: intPtr(2), BaseURL: "https://backup.example.com/latest"}, "u"))
	suite.Require().NoError(suite.service.AddProvider(ctx, dto.AddProviderRequest{Name: "primary", Priority: intPtr(1), BaseURL: "https://primary.example.com/latest", APIKey: "k"}, "u"))

	err := suite.service.AddProvider(ctx, dto.AddProviderRequest{Name: "Primary", Priority: intPtr(3), BaseURL: "https://x.example.com"}, "u")
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	err = suite.service.AddProvider(ctx, dto.AddProviderRequest{Name: "ftp", Priority: intPtr(3), BaseURL: "ftp://x.example.com"}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)

	err = suite.service.AddProvider(ctx, dto.AddProviderRequest{Name: "rel", Priority: intPtr(3), BaseURL: "/latest"}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)

	providers := suite.service.GetSettings(ctx).Providers
	suite.Require().Len(providers, 2)
	suite.Equal("primary", providers[0].Name)
	suite.Equal("backup", providers[1].Name)

	suite.Require().NoError(suite.service.RemoveProvider(ctx, "primary", "u"))
	suite.Len(suite.service.GetSettings(ctx).Providers, 1)
	suite.ErrorIs(suite.service.RemoveProvider(ctx, "primary", "u"), apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestLoadSettings_RestoresPersistedState() {
	ctx := context.Background()
	suite.mockRepo.On("ListCurrencies", mock.Anything).Return([]domain.Currency{
		{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Decimals: 2, Active: true},
	}, nil).Once()
	suite.mockRepo.On("GetSettings", mock.Anything).Return(&domain.CurrencySettings{
		BaseCurrency:    "EUR",
		UpdateFrequency: domain.FrequencyMonthly,
		Providers:       []domain.RateProvider{{Name: "b", Priority: 5}, {Name: "a", Priority: 1}},
	}, nil).Once()

	suite.Require().NoError(suite.service.LoadSettings(ctx))

	settings := suite.service.GetSettings(ctx)
	suite.Equal("EUR", settings.BaseCurrency)
	suite.Equal(domain.FrequencyMonthly, settings.UpdateFrequency)
	suite.Equal("a", settings.Providers[0].Name)
	_, err := suite.service.GetCurrency(ctx, "INR")
	suite.NoError(err)
}

func (suite *CurrencyServiceTestSuite) TestLoadSettings_NothingPersisted() {
	ctx := context.Background()
	suite.mockRepo.On("ListCurrencies", mock.Anything).Return([]domain.Currency{}, nil).Once()
	suite.mockRepo.On("GetSettings", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	suite.Require().NoError(suite.service.LoadSettings(ctx))
	suite.Equal("USD", suite.service.BaseCurrency())
	suite.Equal(domain.FrequencyDaily, suite.service.GetSettings(ctx).UpdateFrequency)
}

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
