package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a transaction line is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// Valid reports whether the entry type is debit or credit.
func (t EntryType) Valid() bool {
	return t == Debit || t == Credit
}

// TransactionStatus is the approval state of a transaction.
type TransactionStatus string

const (
	StatusDraft    TransactionStatus = "draft"
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

// Valid reports whether the status is one of the four known states.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// TransactionEntry is one line of a transaction, affecting one account.
type TransactionEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"` // Strictly positive
	CurrencyCode  string          `json:"currencyCode"`
	EntryType     EntryType       `json:"entryType"`
	Description   string          `json:"description,omitempty"`
	Position      int             `json:"position"`
}

// Money returns the entry amount with its currency.
func (e TransactionEntry) Money() Amount {
	return Amount{Value: e.Amount, Currency: e.CurrencyCode}
}

// Transaction is a dated set of entries whose debits equal credits once
// converted to one reference currency. Balance is checked at creation only.
type Transaction struct {
	TransactionID string                `json:"transactionID"`
	CompanyID     string                `json:"companyID"`
	Date          time.Time             `json:"date"`
	Description   string                `json:"description"`
	Entries       []TransactionEntry    `json:"entries"`
	Status        TransactionStatus     `json:"status"`
	Approvals     []TransactionApproval `json:"approvals,omitempty"`
	AuditFields
}

// Currencies returns the distinct entry currencies in sorted order.
func (t Transaction) Currencies() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	var out []string
	for _, e := range t.Entries {
		if _, ok := seen[e.CurrencyCode]; ok {
			continue
		}
		seen[e.CurrencyCode] = struct{}{}
		out = append(out, e.CurrencyCode)
	}
	sort.Strings(out)
	return out
}

// IsMultiCurrency reports whether the entries span more than one currency.
func (t Transaction) IsMultiCurrency() bool {
	return len(t.Currencies()) > 1
}

// DebitsByCurrency sums debit entries per currency.
func (t Transaction) DebitsByCurrency() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, e := range t.Entries {
		if e.EntryType == Debit {
			out[e.CurrencyCode] = out[e.CurrencyCode].Add(e.Amount)
		}
	}
	return out
}

// TransactionApproval records one approve or reject decision. Immutable once created.
type TransactionApproval struct {
	ApprovalID    string            `json:"approvalID"`
	TransactionID string            `json:"transactionID"`
	UserID        string            `json:"userID"`
	Role          UserRole          `json:"role"`
	Status        TransactionStatus `json:"status"` // approved or rejected
	Comment       string            `json:"comment,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Search         string
	DateFrom       *time.Time
	DateTo         *time.Time
	Statuses       []TransactionStatus
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	AmountCurrency string // Currency the amount bounds are expressed in
}

// HasAmountBounds reports whether min or max amount filtering applies.
func (f TransactionFilter) HasAmountBounds() bool {
	return f.MinAmount != nil || f.MaxAmount != nil
}
