package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/core/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/SscSPs/multicurrency_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rateService     portssvc.ExchangeRateSvcFacade
	refresher       portssvc.RateRefresherSvc
	currencyService portssvc.CurrencyReaderSvc
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade, rr portssvc.RateRefresherSvc, cs portssvc.CurrencyReaderSvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService:     rs,
		refresher:       rr,
		currencyService: cs,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade, refresher portssvc.RateRefresherSvc, currencyService portssvc.CurrencyReaderSvc) {
	h := newExchangeRateHandler(rateService, refresher, currencyService)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("", h.listRates)
		rates.PUT("", h.replaceRates)
		rates.POST("", h.addManualRate)
		rates.POST("/refresh", h.refreshRates)
		rates.POST("/historical", h.fetchHistorical)
		rates.GET("/convert", h.convert)
		rates.GET("/:from/:to", h.getRate)
		rates.GET("/:from/:to/history", h.getRateHistory)
	}
}

// listRates godoc
// @Summary List current exchange rates
// @Description Returns the current rate snapshot and the instant it was last replaced.
// @Tags exchange-rates
// @Produce  json
// @Success 200 {object} dto.ExchangeRatesResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	rates, lastUpdate := h.rateService.ListRates(c.Request.Context())
	resp := dto.ExchangeRatesResponse{Rates: dto.ToExchangeRateResponses(rates)}
	if !lastUpdate.IsZero() {
		resp.LastUpdate = &lastUpdate
	}
	c.JSON(http.StatusOK, resp)
}

// replaceRates godoc
// @Summary Replace the rate snapshot
// @Description Replaces every current rate. Each supplied rate is also kept in the rate history.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rates body dto.ReplaceRatesRequest true "New snapshot"
// @Success 200 {object} dto.ExchangeRatesResponse
// @Failure 400 {object} map[string]string "Invalid rate"
// @Security BearerAuth
// @Router /exchange-rates [put]
func (h *exchangeRateHandler) replaceRates(c *gin.Context) {
	var req dto.ReplaceRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rates, err := h.rateService.ReplaceRates(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "replace exchange rates")
		return
	}
	_, lastUpdate := h.rateService.ListRates(c.Request.Context())
	c.JSON(http.StatusOK, dto.ExchangeRatesResponse{Rates: dto.ToExchangeRateResponses(rates), LastUpdate: &lastUpdate})
}

// addManualRate godoc
// @Summary Record a manual exchange rate
// @Description Records one rate that becomes the current rate of its pair.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.ExchangeRateRequest true "Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid rate"
// @Failure 404 {object} map[string]string "Unknown currency"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) addManualRate(c *gin.Context) {
	var req dto.ExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rate, err := h.rateService.AddManualRate(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "record exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(*rate))
}

// refreshRates godoc
// @Summary Refresh rates from providers
// @Description Fetches rates from the configured providers in priority order. Fresh rates are kept unless force is set.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   request body dto.RefreshRatesRequest false "Refresh options"
// @Success 200 {object} dto.RefreshRatesResponse
// @Failure 502 {object} map[string]string "Every provider failed"
// @Security BearerAuth
// @Router /exchange-rates/refresh [post]
func (h *exchangeRateHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshRatesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	result, err := h.refresher.Refresh(c.Request.Context(), req.Force)
	if err != nil {
		if errors.Is(err, services.ErrAllProvidersFailed) {
			logger.Warn("Rate refresh failed for every provider", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		respondWithError(c, err, "refresh exchange rates")
		return
	}

	resp := dto.RefreshRatesResponse{
		Refreshed: result.Refreshed,
		Skipped:   result.Skipped,
		Provider:  result.Provider,
		RateCount: result.RateCount,
	}
	if !result.LastUpdate.IsZero() {
		resp.LastUpdate = &result.LastUpdate
	}
	c.JSON(http.StatusOK, resp)
}

// fetchHistorical godoc
// @Summary Fetch historical rates
// @Description Records the provider rates of a past date into the rate history.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   request body dto.FetchHistoricalRequest true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]int "Number of rates recorded"
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 502 {object} map[string]string "Every provider failed"
// @Security BearerAuth
// @Router /exchange-rates/historical [post]
func (h *exchangeRateHandler) fetchHistorical(c *gin.Context) {
	var req dto.FetchHistoricalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondBindError(c, err)
		return
	}

	count, err := h.refresher.FetchHistorical(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, services.ErrAllProvidersFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		respondWithError(c, err, "fetch historical rates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "rateCount": count})
}

// convert godoc
// @Summary Convert an amount
// @Description Converts an amount through a direct, inverse or pivot rate.
// @Tags exchange-rates
// @Produce  json
// @Param   amount query string true "Decimal amount"
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid amount or currency"
// @Failure 422 {object} map[string]string "No rate path between the currencies"
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	conv, err := h.rateService.Convert(c.Request.Context(), params.Amount, params.From, params.To)
	if err != nil {
		respondWithError(c, err, "convert amount")
		return
	}

	formatted := conv.Value.String()
	if target, err := h.currencyService.GetCurrency(c.Request.Context(), conv.To); err == nil {
		formatted = utils.FormatWithCurrencyPrecision(conv.Value, *target)
	}
	c.JSON(http.StatusOK, dto.ConversionResponse{
		Amount:    conv.Amount,
		From:      conv.From,
		To:        conv.To,
		Value:     conv.Value,
		Formatted: formatted,
		Method:    string(conv.Method),
		Pivot:     conv.Pivot,
	})
}

// getRate godoc
// @Summary Get the effective rate of a pair
// @Tags exchange-rates
// @Produce  json
// @Param   from path string true "Source currency"
// @Param   to path string true "Target currency"
// @Success 200 {object} dto.PairRateResponse
// @Failure 422 {object} map[string]string "No rate path between the currencies"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getRate(c *gin.Context) {
	conv, latest, err := h.rateService.GetRate(c.Request.Context(), c.Param("from"), c.Param("to"))
	if err != nil {
		respondWithError(c, err, "retrieve exchange rate")
		return
	}

	resp := dto.PairRateResponse{
		From:   conv.From,
		To:     conv.To,
		Rate:   conv.Value,
		Method: string(conv.Method),
		Pivot:  conv.Pivot,
	}
	if latest != nil {
		r := dto.ToExchangeRateResponse(*latest)
		resp.Latest = &r
	}
	c.JSON(http.StatusOK, resp)
}

// getRateHistory godoc
// @Summary Get the rate history of a pair
// @Description Without asOf every recorded rate is returned, oldest first. With asOf the latest rate recorded at or before that instant is returned.
// @Tags exchange-rates
// @Produce  json
// @Param   from path string true "Source currency"
// @Param   to path string true "Target currency"
// @Param   asOf query string false "RFC3339 instant"
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 404 {object} map[string]string "No rate recorded before asOf"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to}/history [get]
func (h *exchangeRateHandler) getRateHistory(c *gin.Context) {
	var params dto.HistoricalRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	from, to := strings.ToUpper(c.Param("from")), strings.ToUpper(c.Param("to"))

	if params.AsOf.IsZero() {
		history := h.rateService.PairHistory(c.Request.Context(), from, to)
		c.JSON(http.StatusOK, dto.ToExchangeRateResponses(history))
		return
	}

	rate, err := h.rateService.GetHistoricalRate(c.Request.Context(), from, to, params.AsOf)
	if err != nil {
		respondWithError(c, err, "retrieve historical rate")
		return
	}
	c.JSON(http.StatusOK, []dto.ExchangeRateResponse{dto.ToExchangeRateResponse(*rate)})
}
