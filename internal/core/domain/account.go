package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// Valid reports whether the account type is one of the five known types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a financial account in a company's chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"` // Primary Key (e.g., UUID)
	CompanyID       string      `json:"companyID"` // FK -> companies.company_id
	Code            string      `json:"code"`      // Unique within the company
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"` // Advisory grouping only
	Description     string      `json:"description"`
	AuditFields
}
