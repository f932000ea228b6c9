package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_IsMultiCurrency(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.Transaction
		want        bool
	}{
		{
			name: "single currency transaction",
			transaction: domain.Transaction{Entries: []domain.TransactionEntry{
				{CurrencyCode: "USD", EntryType: domain.Debit, Amount: decimal.NewFromInt(10)},
				{CurrencyCode: "USD", EntryType: domain.Credit, Amount: decimal.NewFromInt(10)},
			}},
			want: false,
		},
		{
			name: "USD and EUR entries",
			transaction: domain.Transaction{Entries: []domain.TransactionEntry{
				{CurrencyCode: "USD", EntryType: domain.Debit, Amount: decimal.NewFromInt(100)},
				{CurrencyCode: "EUR", EntryType: domain.Credit, Amount: decimal.NewFromInt(92)},
			}},
			want: true,
		},
		{
			name:        "no entries",
			transaction: domain.Transaction{},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.IsMultiCurrency())
		})
	}
}

func TestTransaction_DebitsByCurrency(t *testing.T) {
	tx := domain.Transaction{Entries: []domain.TransactionEntry{
		{CurrencyCode: "USD", EntryType: domain.Debit, Amount: decimal.RequireFromString("40.50")},
		{CurrencyCode: "USD", EntryType: domain.Debit, Amount: decimal.RequireFromString("9.50")},
		{CurrencyCode: "EUR", EntryType: domain.Credit, Amount: decimal.NewFromInt(46)},
	}}

	sums := tx.DebitsByCurrency()
	assert.Len(t, sums, 1)
	assert.True(t, sums["USD"].Equal(decimal.NewFromInt(50)))
	assert.Equal(t, []string{"EUR", "USD"}, tx.Currencies())
}

func TestTransactionStatus(t *testing.T) {
	assert.True(t, domain.StatusApproved.IsTerminal())
	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.False(t, domain.StatusDraft.IsTerminal())
	assert.False(t, domain.TransactionStatus("posted").Valid())
}

func TestUpdateFrequency_StaleAfter(t *testing.T) {
	assert.Equal(t, 5*time.Minute, domain.FrequencyRealtime.StaleAfter())
	assert.Equal(t, 24*time.Hour, domain.FrequencyDaily.StaleAfter())
	assert.Equal(t, 7*24*time.Hour, domain.FrequencyWeekly.StaleAfter())
	assert.Equal(t, 30*24*time.Hour, domain.FrequencyMonthly.StaleAfter())
}

func TestRoles(t *testing.T) {
	assert.True(t, domain.IsPrivileged([]domain.UserRole{domain.RoleMember, domain.RoleApprover}))
	assert.False(t, domain.IsPrivileged([]domain.UserRole{domain.RoleMember}))
	assert.Equal(t, domain.RoleAdmin, domain.PrimaryRole([]domain.UserRole{domain.RoleApprover, domain.RoleAdmin}))
	assert.Equal(t, domain.RoleMember, domain.PrimaryRole(nil))
}
