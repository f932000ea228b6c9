package dto

import (
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create an account.
type CreateAccountRequest struct {
	Code            string  `json:"code" binding:"required,max=32"`
	Name            string  `json:"name" binding:"required"`
	AccountType     string  `json:"accountType" binding:"required,oneof=asset liability equity revenue expense"`
	ParentAccountID *string `json:"parentAccountID"`
	Description     string  `json:"description"`
}

// UpdateAccountRequest defines the fields of an account that can be changed.
type UpdateAccountRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1"`
	Description     *string `json:"description"`
	ParentAccountID *string `json:"parentAccountID"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string    `json:"accountID"`
	CompanyID       string    `json:"companyID"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	AccountType     string    `json:"accountType"`
	ParentAccountID *string   `json:"parentAccountID,omitempty"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy   string    `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		CompanyID:       a.CompanyID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		CreatedAt:       a.CreatedAt,
		CreatedBy:       a.CreatedBy,
		LastUpdatedAt:   a.LastUpdatedAt,
		LastUpdatedBy:   a.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// AccountBalanceParams are the query parameters of a balance lookup.
type AccountBalanceParams struct {
	Currency     string `form:"currency" binding:"omitempty,currency_code"`
	ApprovedOnly bool   `form:"approvedOnly"`
}
