package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether an entry is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// Transaction represents a row of the transactions table.
type Transaction struct {
	TransactionID   string    `db:"transaction_id"`
	CompanyID       string    `db:"company_id"`
	TransactionDate time.Time `db:"transaction_date"`
	Description     string    `db:"description"`
	Status          string    `db:"status"`
	AuditFields
}

// TransactionEntry represents a single line of a transaction, affecting one account.
type TransactionEntry struct {
	EntryID       string          `db:"entry_id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"` // Positive value; NUMERIC(38,18)
	CurrencyCode  string          `db:"currency_code"`
	EntryType     EntryType       `db:"entry_type"`
	Description   string          `db:"description"`
	Position      int             `db:"position"`
}

// TransactionApproval represents a row of the transaction_approvals table.
type TransactionApproval struct {
	ApprovalID    string    `db:"approval_id"`
	TransactionID string    `db:"transaction_id"`
	UserID        string    `db:"user_id"`
	Role          string    `db:"role"`
	Status        string    `db:"status"`
	Comment       string    `db:"comment"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
