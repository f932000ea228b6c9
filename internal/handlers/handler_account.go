package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	reportingService portssvc.ReportingService
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, rs portssvc.ReportingService) *accountHandler {
	return &accountHandler{
		accountService:   as,
		reportingService: rs,
	}
}

// RegisterAccountRoutes registers account routes under a company group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, reportingService portssvc.ReportingService) {
	registerValidators()
	h := newAccountHandler(accountService, reportingService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.PUT("/:account_id", h.updateAccount)
		accounts.GET("/:account_id/balance", h.getAccountBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account in the company's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 409 {object} map[string]string "Account code already used in the company"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create account", slog.String("account_code", req.Code), slog.String("account_type", req.AccountType))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondWithError(c, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("company_id"), c.Param("account_id"))
	if err != nil {
		respondWithError(c, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Retrieves every account of the company ordered by code
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("company_id"))
	if err != nil {
		respondWithError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates name, description or parent. An empty parentAccountID clears the parent.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("company_id"), c.Param("account_id"), req, userID)
	if err != nil {
		respondWithError(c, err, "update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Returns the signed balance per currency and its total in the display currency
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Param   currency query string false "Display currency (defaults to the company currency)"
// @Param   approvedOnly query bool false "Count approved transactions only"
// @Success 200 {object} domain.AccountBalance
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	balance, err := h.reportingService.AccountBalance(c.Request.Context(), c.Param("company_id"), c.Param("account_id"), params)
	if err != nil {
		respondWithError(c, err, "calculate balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}
