package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/core/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	now       time.Time
	table     *exchange.RateTable
	publisher *MockPublisher
	cache     *recordingInvalidator
	service   portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return suite.now }
	suite.table = exchange.NewRateTable(exchange.WithClock(clock))
	for _, c := range exchange.DefaultCurrencies() {
		suite.table.RegisterCurrency(c)
	}
	suite.publisher = new(MockPublisher)
	suite.cache = &recordingInvalidator{}
	suite.service = services.NewExchangeRateService(suite.table, exchange.NewResolver(suite.table),
		services.WithRateCacheInvalidator(suite.cache),
		services.WithExchangeRateBase(services.BaseService{Publisher: suite.publisher, Now: clock}),
	)
}

func rateReq(from, to, rate string) dto.ExchangeRateRequest {
	return dto.ExchangeRateRequest{From: from, To: to, Rate: decimal.RequireFromString(rate)}
}

func (suite *ExchangeRateServiceTestSuite) TestReplaceRates_Success() {
	ctx := context.Background()
	suite.publisher.On("Publish", mock.Anything, eventOfType(domain.EventRatesUpdated)).Return(nil).Once()

	rates, err := suite.service.ReplaceRates(ctx, dto.ReplaceRatesRequest{Rates: []dto.ExchangeRateRequest{
		rateReq("USD", "CNY", "7.2"),
		rateReq("usd", "eur", "0.92"),
	}}, "user-1")

	suite.Require().NoError(err)
	suite.Len(rates, 2)
	listed, last := suite.service.ListRates(ctx)
	suite.Len(listed, 2)
	suite.Equal(suite.now, last)
	suite.Equal([]string{""}, suite.cache.calls)
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestReplaceRates_RejectsInvalid() {
	ctx := context.Background()

	_, err := suite.service.ReplaceRates(ctx, dto.ReplaceRatesRequest{Rates: []dto.ExchangeRateRequest{rateReq("USD", "USD", "1")}}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ReplaceRates(ctx, dto.ReplaceRatesRequest{Rates: []dto.ExchangeRateRequest{rateReq("USD", "EUR", "0")}}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ReplaceRates(ctx, dto.ReplaceRatesRequest{Rates: []dto.ExchangeRateRequest{rateReq("USD", "EUR", "-1.5")}}, "u")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Empty(suite.table.Rates())
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestAddManualRate() {
	ctx := context.Background()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	r, err := suite.service.AddManualRate(ctx, rateReq("USD", "JPY", "150"), "u")
	suite.Require().NoError(err)
	suite.Equal(domain.SourceManual, r.Source)
	suite.True(suite.table.LastUpdate().IsZero(), "manual rates do not count as a refresh")

	_, err = suite.service.AddManualRate(ctx, rateReq("USD", "XYZ", "2"), "u")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_DirectAndDerived() {
	ctx := context.Background()
	suite.table.AddRates([]domain.ExchangeRate{
		{From: "USD", To: "CNY", Rate: decimal.RequireFromString("7.2"), Timestamp: suite.now, Source: "test"},
		{From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.92"), Timestamp: suite.now, Source: "test"},
	})

	conv, latest, err := suite.service.GetRate(ctx, "USD", "CNY")
	suite.Require().NoError(err)
	suite.Equal(domain.MethodDirect, conv.Method)
	suite.Require().NotNil(latest)
	suite.Equal("test", latest.Source)

	conv, latest, err = suite.service.GetRate(ctx, "EUR", "CNY")
	suite.Require().NoError(err)
	suite.Equal(domain.MethodCross, conv.Method)
	suite.Equal("USD", conv.Pivot)
	suite.Nil(latest)

	_, _, err = suite.service.GetRate(ctx, "GBP", "CNY")
	suite.ErrorIs(err, apperrors.ErrNoRateAvailable)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert() {
	ctx := context.Background()
	suite.table.AddRates([]domain.ExchangeRate{
		{From: "USD", To: "CNY", Rate: decimal.RequireFromString("7.2"), Timestamp: suite.now},
	})

	conv, err := suite.service.Convert(ctx, "100", "USD", "CNY")
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("720").Equal(conv.Value))

	_, err = suite.service.Convert(ctx, "abc", "USD", "CNY")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestGetHistoricalRate() {
	ctx := context.Background()
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	suite.table.AddHistoricalRates([]domain.ExchangeRate{
		{From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.91"), Timestamp: jan},
	})

	r, err := suite.service.GetHistoricalRate(ctx, "USD", "EUR", jan.Add(24*time.Hour))
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("0.91").Equal(r.Rate))

	_, err = suite.service.GetHistoricalRate(ctx, "USD", "EUR", jan.Add(-time.Hour))
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Len(suite.service.PairHistory(ctx, "usd", "eur"), 1)
}

func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
