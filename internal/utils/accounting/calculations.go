package accounting

import (
	"fmt"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the normal-balance sign of accountType to an entry amount.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(entry domain.TransactionEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := entry.Amount
	isDebit := entry.EntryType == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
	return signedAmount, nil
}
