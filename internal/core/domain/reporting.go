package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySums holds debit and credit totals in one currency.
type CurrencySums struct {
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
}

// BalanceReport is the outcome of a double-entry balance check.
type BalanceReport struct {
	IsBalanced        bool                    `json:"isBalanced"`
	Difference        decimal.Decimal         `json:"difference"`
	Total             decimal.Decimal         `json:"total"`
	Debits            decimal.Decimal         `json:"debits"`
	Credits           decimal.Decimal         `json:"credits"`
	ReferenceCurrency string                  `json:"referenceCurrency"`
	Tolerance         decimal.Decimal         `json:"tolerance"`
	PerCurrency       map[string]CurrencySums `json:"perCurrency"`
	Unconverted       []int                   `json:"unconverted,omitempty"` // Entry indexes lacking a rate path
}

// CurrencyReportRow is the income and expense of one currency.
type CurrencyReportRow struct {
	Currency         string           `json:"currency"`
	Income           decimal.Decimal  `json:"income"`
	Expense          decimal.Decimal  `json:"expense"`
	Profit           decimal.Decimal  `json:"profit"`
	Rate             *decimal.Decimal `json:"rate,omitempty"` // 1 unit of Currency in the display currency
	ConvertedIncome  *decimal.Decimal `json:"convertedIncome,omitempty"`
	ConvertedExpense *decimal.Decimal `json:"convertedExpense,omitempty"`
}

// FinancialReport is a multi-currency income statement consolidated into one currency.
type FinancialReport struct {
	CompanyID       string              `json:"companyID"`
	DateFrom        *time.Time          `json:"dateFrom,omitempty"`
	DateTo          *time.Time          `json:"dateTo,omitempty"`
	DisplayCurrency string              `json:"displayCurrency"`
	ByCurrency      []CurrencyReportRow `json:"byCurrency"`
	TotalIncome     decimal.Decimal     `json:"totalIncome"`
	TotalExpense    decimal.Decimal     `json:"totalExpense"`
	NetProfit       decimal.Decimal     `json:"netProfit"`
	Unconverted     []string            `json:"unconverted,omitempty"`
	GeneratedAt     time.Time           `json:"generatedAt"`
}

// AccountBalance is the signed balance of one account, per currency and consolidated.
type AccountBalance struct {
	AccountID       string                     `json:"accountID"`
	AccountType     AccountType                `json:"accountType"`
	ByCurrency      map[string]decimal.Decimal `json:"byCurrency"`
	DisplayCurrency string                     `json:"displayCurrency"`
	Total           decimal.Decimal            `json:"total"`
	Unconverted     []string                   `json:"unconverted,omitempty"`
	ApprovedOnly    bool                       `json:"approvedOnly"`
}
