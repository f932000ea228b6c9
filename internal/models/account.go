package models

import "database/sql"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// Account represents a row of the accounts table.
type Account struct {
	AccountID       string         `db:"account_id"`
	CompanyID       string         `db:"company_id"`
	Code            string         `db:"code"`
	Name            string         `db:"name"`
	AccountType     AccountType    `db:"account_type"`
	ParentAccountID sql.NullString `db:"parent_account_id"` // Nullable
	Description     string         `db:"description"`
	AuditFields
}
