package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies and currency settings.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.registerCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrency)
		currencies.DELETE("/:code", h.deactivateCurrency)
	}

	settings := rg.Group("/currency-settings")
	{
		settings.GET("", h.getSettings)
		settings.PUT("/base-currency", h.setBaseCurrency)
		settings.PUT("/update-frequency", h.setUpdateFrequency)
		settings.POST("/providers", h.addProvider)
		settings.DELETE("/providers/:name", h.removeProvider)
	}
}

// registerCurrency godoc
// @Summary Register a currency
// @Description Adds a currency to the process-wide currency list, or redefines an existing one.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.RegisterCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to register currency"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) registerCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	currency, err := h.currencyService.RegisterCurrency(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "register currency")
		return
	}

	logger.Info("Currency registered", slog.String("currency_code", currency.Code))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(*currency))
}

// listCurrencies godoc
// @Summary List currencies
// @Description Retrieves every known currency, active or not.
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies := h.currencyService.ListCurrencies(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getCurrency godoc
// @Summary Get a currency
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency code (e.g., USD)"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetCurrency(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if err != nil {
		respondWithError(c, err, "retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(*currency))
}

// deactivateCurrency godoc
// @Summary Deactivate a currency
// @Description Soft-deletes a currency. Its rates and existing entries stay untouched.
// @Tags currencies
// @Param   code path string true "Currency code"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Base currency cannot be deactivated"
// @Failure 404 {object} map[string]string "Currency not found"
// @Security BearerAuth
// @Router /currencies/{code} [delete]
func (h *currencyHandler) deactivateCurrency(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	code := strings.ToUpper(c.Param("code"))
	if err := h.currencyService.DeactivateCurrency(c.Request.Context(), code, userID); err != nil {
		respondWithError(c, err, "deactivate currency")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Currency deactivated", slog.String("currency_code", code))
	c.Status(http.StatusNoContent)
}

// getSettings godoc
// @Summary Get currency settings
// @Description Returns the base currency, available currencies, providers and update frequency.
// @Tags currency-settings
// @Produce  json
// @Success 200 {object} dto.CurrencySettingsResponse
// @Security BearerAuth
// @Router /currency-settings [get]
func (h *currencyHandler) getSettings(c *gin.Context) {
	settings := h.currencyService.GetSettings(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToCurrencySettingsResponse(settings))
}

// setBaseCurrency godoc
// @Summary Set the base currency
// @Tags currency-settings
// @Accept  json
// @Produce  json
// @Param   request body dto.SetBaseCurrencyRequest true "New base currency"
// @Success 200 {object} dto.CurrencySettingsResponse
// @Failure 400 {object} map[string]string "Unknown or inactive currency"
// @Security BearerAuth
// @Router /currency-settings/base-currency [put]
func (h *currencyHandler) setBaseCurrency(c *gin.Context) {
	var req dto.SetBaseCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.currencyService.SetBaseCurrency(c.Request.Context(), strings.ToUpper(req.Currency), userID); err != nil {
		respondWithError(c, err, "set base currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencySettingsResponse(h.currencyService.GetSettings(c.Request.Context())))
}

// setUpdateFrequency godoc
// @Summary Set the rate update frequency
// @Tags currency-settings
// @Accept  json
// @Produce  json
// @Param   request body dto.SetUpdateFrequencyRequest true "realtime, daily, weekly or monthly"
// @Success 200 {object} dto.CurrencySettingsResponse
// @Failure 400 {object} map[string]string "Invalid frequency"
// @Security BearerAuth
// @Router /currency-settings/update-frequency [put]
func (h *currencyHandler) setUpdateFrequency(c *gin.Context) {
	var req dto.SetUpdateFrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.currencyService.SetUpdateFrequency(c.Request.Context(), domain.UpdateFrequency(req.Frequency), userID); err != nil {
		respondWithError(c, err, "set update frequency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencySettingsResponse(h.currencyService.GetSettings(c.Request.Context())))
}

// addProvider godoc
// @Summary Add a rate provider
// @Tags currency-settings
// @Accept  json
// @Produce  json
// @Param   provider body dto.AddProviderRequest true "Provider details"
// @Success 201 {object} dto.CurrencySettingsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Provider name already used"
// @Security BearerAuth
// @Router /currency-settings/providers [post]
func (h *currencyHandler) addProvider(c *gin.Context) {
	var req dto.AddProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.currencyService.AddProvider(c.Request.Context(), req, userID); err != nil {
		respondWithError(c, err, "add provider")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCurrencySettingsResponse(h.currencyService.GetSettings(c.Request.Context())))
}

// removeProvider godoc
// @Summary Remove a rate provider
// @Tags currency-settings
// @Param   name path string true "Provider name"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Provider not found"
// @Security BearerAuth
// @Router /currency-settings/providers/{name} [delete]
func (h *currencyHandler) removeProvider(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.currencyService.RemoveProvider(c.Request.Context(), c.Param("name"), userID); err != nil {
		respondWithError(c, err, "remove provider")
		return
	}
	c.Status(http.StatusNoContent)
}
