package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	exportService      portssvc.ExportService
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade, es portssvc.ExportService) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		exportService:      es,
	}
}

// RegisterTransactionRoutes registers transaction routes under a company group.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, exportService portssvc.ExportService) {
	registerValidators()
	h := newTransactionHandler(transactionService, exportService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.POST("/validate", h.validateTransaction)
		txns.GET("/export", h.exportTransactions)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.PUT("/:transaction_id", h.updateTransaction)
		txns.POST("/:transaction_id/submit", h.submitTransaction)
		txns.POST("/:transaction_id/approve", h.approveTransaction)
		txns.POST("/:transaction_id/reject", h.rejectTransaction)
	}
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Validates the entries, checks that debits equal credits in the reference currency and stores the transaction as a draft.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} map[string]interface{} "Invalid input or unbalanced (difference, total, referenceCurrency)"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 503 {object} map[string]string "Write outcome unknown"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create transaction", slog.Int("entry_count", len(req.Entries)))

	txn, report, err := h.transactionService.CreateTransaction(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondWithError(c, err, "create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.CreateTransactionResponse{
		Transaction: dto.ToTransactionResponse(txn),
		Balance:     dto.ToBalanceCheckResponse(*report),
	})
}

// validateTransaction godoc
// @Summary Check a transaction without saving it
// @Description Runs the creation checks and returns the balance report. Nothing is stored.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 200 {object} dto.BalanceCheckResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/validate [post]
func (h *transactionHandler) validateTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.transactionService.PreviewBalance(c.Request.Context(), c.Param("company_id"), req)
	if err != nil {
		respondWithError(c, err, "validate transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceCheckResponse(report))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first with token-based pagination.
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   search query string false "Case-insensitive description search"
// @Param   dateFrom query string false "YYYY-MM-DD"
// @Param   dateTo query string false "YYYY-MM-DD, inclusive"
// @Param   status query []string false "draft, pending, approved or rejected" collectionFormat(multi)
// @Param   minAmount query string false "Minimum total debits"
// @Param   maxAmount query string false "Maximum total debits"
// @Param   amountCurrency query string false "Currency of the amount bounds"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("company_id"), params)
	if err != nil {
		respondWithError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// exportTransactions godoc
// @Summary Export transactions
// @Description Downloads one row per entry as CSV (default) or JSON. Accepts the listing filters.
// @Tags transactions
// @Produce  text/csv
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   format query string false "csv or json" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/export [get]
func (h *transactionHandler) exportTransactions(c *gin.Context) {
	var params dto.ExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType, err := h.exportService.ExportTransactions(c.Request.Context(), c.Param("company_id"), params, &buf)
	if err != nil {
		respondWithError(c, err, "export transactions")
		return
	}

	ext := "csv"
	if params.Format == "json" {
		ext = "json"
	}
	filename := fmt.Sprintf("transactions-%s.%s", time.Now().UTC().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("company_id"), c.Param("transaction_id"))
	if err != nil {
		respondWithError(c, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Changes description or date of a draft or pending transaction. Entries and status cannot change here.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or transaction already decided"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), c.Param("company_id"), c.Param("transaction_id"), req, userID)
	if err != nil {
		respondWithError(c, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// submitTransaction godoc
// @Summary Submit a draft for approval
// @Tags transactions
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transaction is not a draft"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/submit [post]
func (h *transactionHandler) submitTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.SubmitTransaction(c.Request.Context(), c.Param("company_id"), c.Param("transaction_id"), actor)
	if err != nil {
		respondWithError(c, err, "submit transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// approveTransaction godoc
// @Summary Approve a transaction
// @Description Requires the APPROVER or ADMIN role. Allowed from draft or pending.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   decision body dto.DecisionRequest false "Optional comment"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transaction already decided"
// @Failure 403 {object} map[string]string "Caller lacks the approver role"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/approve [post]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	req, ok := bindDecision(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.ApproveTransaction(c.Request.Context(), c.Param("company_id"), c.Param("transaction_id"), actor, req.Comment)
	if err != nil {
		respondWithError(c, err, "approve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// rejectTransaction godoc
// @Summary Reject a transaction
// @Description Requires the APPROVER or ADMIN role and a comment. Allowed from draft or pending.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   decision body dto.DecisionRequest true "Reason for rejection"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Missing comment or transaction already decided"
// @Failure 403 {object} map[string]string "Caller lacks the approver role"
// @Security BearerAuth
// @Router /companies/{company_id}/transactions/{transaction_id}/reject [post]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	req, ok := bindDecision(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.RejectTransaction(c.Request.Context(), c.Param("company_id"), c.Param("transaction_id"), actor, req.Comment)
	if err != nil {
		respondWithError(c, err, "reject transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// bindDecision reads an optional decision body.
func bindDecision(c *gin.Context) (dto.DecisionRequest, bool) {
	var req dto.DecisionRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return req, false
	}
	return req, true
}
