package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryRequest is one line of a transaction being created.
type EntryRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required,positive_decimal"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currency_code"`
	EntryType    string          `json:"entryType" binding:"required,oneof=debit credit"`
	Description  string          `json:"description"`
}

// CreateTransactionRequest defines the data needed to create a transaction.
// ReferenceCurrency selects the currency the balance check runs in; it defaults
// to the company currency.
type CreateTransactionRequest struct {
	Date              time.Time      `json:"date" binding:"required"`
	Description       string         `json:"description" binding:"required"`
	Entries           []EntryRequest `json:"entries" binding:"required,min=2,dive"`
	ReferenceCurrency string         `json:"referenceCurrency" binding:"omitempty,currency_code"`
}

// ToDomainEntries converts entry requests into domain entries in request order.
func (r CreateTransactionRequest) ToDomainEntries() []domain.TransactionEntry {
	entries := make([]domain.TransactionEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.TransactionEntry{
			AccountID:    e.AccountID,
			Amount:       e.Amount,
			CurrencyCode: e.CurrencyCode,
			EntryType:    domain.EntryType(e.EntryType),
			Description:  e.Description,
			Position:     i,
		}
	}
	return entries
}

// UpdateTransactionRequest changes description or date. Entries and status are immutable here.
type UpdateTransactionRequest struct {
	Date        *time.Time `json:"date"`
	Description *string    `json:"description" binding:"omitempty,min=1"`
}

// DecisionRequest carries the comment of an approve or reject decision.
type DecisionRequest struct {
	Comment string `json:"comment"`
}

// ListTransactionsParams are the query parameters of a transaction listing.
type ListTransactionsParams struct {
	Search         string     `form:"search"`
	DateFrom       *time.Time `form:"dateFrom" time_format:"2006-01-02" time_utc:"1"`
	DateTo         *time.Time `form:"dateTo" time_format:"2006-01-02" time_utc:"1"`
	Statuses       []string   `form:"status" binding:"omitempty,dive,oneof=draft pending approved rejected"`
	MinAmount      string     `form:"minAmount"`
	MaxAmount      string     `form:"maxAmount"`
	AmountCurrency string     `form:"amountCurrency" binding:"omitempty,currency_code"`
	Limit          int        `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken      *string    `form:"nextToken"`
}

// ExportParams select the export format and filter.
type ExportParams struct {
	ListTransactionsParams
	Format string `form:"format" binding:"omitempty,oneof=csv json"`
}

// EntryResponse is one line of a transaction.
type EntryResponse struct {
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	EntryType    string          `json:"entryType"`
	Description  string          `json:"description,omitempty"`
}

// ApprovalResponse is one recorded decision.
type ApprovalResponse struct {
	ApprovalID string    `json:"approvalID"`
	UserID     string    `json:"userID"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string             `json:"transactionID"`
	CompanyID     string             `json:"companyID"`
	Date          time.Time          `json:"date"`
	Description   string             `json:"description"`
	Status        string             `json:"status"`
	Entries       []EntryResponse    `json:"entries"`
	Approvals     []ApprovalResponse `json:"approvals,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = EntryResponse{
			EntryID:      e.EntryID,
			AccountID:    e.AccountID,
			Amount:       e.Amount,
			CurrencyCode: e.CurrencyCode,
			EntryType:    string(e.EntryType),
			Description:  e.Description,
		}
	}
	var approvals []ApprovalResponse
	for _, a := range t.Approvals {
		approvals = append(approvals, ApprovalResponse{
			ApprovalID: a.ApprovalID,
			UserID:     a.UserID,
			Role:       string(a.Role),
			Status:     string(a.Status),
			Comment:    a.Comment,
			CreatedAt:  a.CreatedAt,
		})
	}
	return TransactionResponse{
		TransactionID: t.TransactionID,
		CompanyID:     t.CompanyID,
		Date:          t.Date,
		Description:   t.Description,
		Status:        string(t.Status),
		Entries:       entries,
		Approvals:     approvals,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// BalanceCheckResponse is the outcome of a balance check.
type BalanceCheckResponse struct {
	IsBalanced         bool                           `json:"isBalanced"`
	Difference         decimal.Decimal                `json:"difference"`
	Total              decimal.Decimal                `json:"total"`
	Debits             decimal.Decimal                `json:"debits"`
	Credits            decimal.Decimal                `json:"credits"`
	ReferenceCurrency  string                         `json:"referenceCurrency"`
	Tolerance          decimal.Decimal                `json:"tolerance"`
	PerCurrency        map[string]domain.CurrencySums `json:"perCurrency"`
	UnconvertedEntries []int                          `json:"unconvertedEntries,omitempty"`
}

// ToBalanceCheckResponse converts a domain.BalanceReport to its DTO.
func ToBalanceCheckResponse(r domain.BalanceReport) BalanceCheckResponse {
	return BalanceCheckResponse{
		IsBalanced:         r.IsBalanced,
		Difference:         r.Difference,
		Total:              r.Total,
		Debits:             r.Debits,
		Credits:            r.Credits,
		ReferenceCurrency:  r.ReferenceCurrency,
		Tolerance:          r.Tolerance,
		PerCurrency:        r.PerCurrency,
		UnconvertedEntries: r.Unconverted,
	}
}

// CreateTransactionResponse is the stored transaction with the balance check it passed.
type CreateTransactionResponse struct {
	Transaction TransactionResponse  `json:"transaction"`
	Balance     BalanceCheckResponse `json:"balance"`
}
