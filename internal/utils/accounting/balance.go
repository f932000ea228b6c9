package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	"github.com/shopspring/decimal"
)

// MinEntries is the smallest number of entries a transaction may have.
const MinEntries = 2

// ValidateEntries is the structural gate run before any balance check.
func ValidateEntries(entries []domain.TransactionEntry) error {
	if len(entries) < MinEntries {
		return fmt.Errorf("%w: transaction must have at least %d entries", apperrors.ErrValidation, MinEntries)
	}
	for i, e := range entries {
		if e.AccountID == "" {
			return fmt.Errorf("%w: entry %d: account is required", apperrors.ErrValidation, i)
		}
		if e.CurrencyCode == "" {
			return fmt.Errorf("%w: entry %d: currency is required", apperrors.ErrValidation, i)
		}
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%w: entry %d: amount must be positive, got %s", apperrors.ErrValidation, i, e.Amount)
		}
		if !e.EntryType.Valid() {
			return fmt.Errorf("%w: entry %d: type must be debit or credit, got %q", apperrors.ErrValidation, i, e.EntryType)
		}
	}
	return nil
}

// DefaultTolerance is half of one minor unit of the currency.
// USD (2 decimals) gives 0.005, JPY (0 decimals) gives 0.5.
func DefaultTolerance(c domain.Currency) decimal.Decimal {
	return decimal.New(5, -(c.Decimals + 1))
}

// CheckBalance converts every entry to the reference currency and compares
// total debits with total credits. It never fails on a missing rate: such
// entries are listed in Unconverted and the report is unbalanced. When every
// entry shares one currency that cannot reach the reference, the check runs in
// that currency instead and the report's ReferenceCurrency names it.
// A zero tolerance demands exact equality.
func CheckBalance(entries []domain.TransactionEntry, reference string, conv exchange.Converter, tolerance decimal.Decimal) domain.BalanceReport {
	report := domain.BalanceReport{
		ReferenceCurrency: reference,
		Tolerance:         tolerance,
		Debits:            decimal.Zero,
		Credits:           decimal.Zero,
		PerCurrency:       make(map[string]domain.CurrencySums),
	}

	for i, e := range entries {
		sums := report.PerCurrency[e.CurrencyCode]
		if e.EntryType == domain.Debit {
			sums.Debits = sums.Debits.Add(e.Amount)
		} else {
			sums.Credits = sums.Credits.Add(e.Amount)
		}
		report.PerCurrency[e.CurrencyCode] = sums

		res, err := conv.Convert(e.Amount, e.CurrencyCode, reference)
		if err != nil {
			report.Unconverted = append(report.Unconverted, i)
			continue
		}
		if e.EntryType == domain.Debit {
			report.Debits = report.Debits.Add(res.Value)
		} else {
			report.Credits = report.Credits.Add(res.Value)
		}
	}

	if len(report.Unconverted) > 0 && len(report.PerCurrency) == 1 {
		for code, sums := range report.PerCurrency {
			report.ReferenceCurrency = code
			report.Debits = sums.Debits
			report.Credits = sums.Credits
		}
		report.Unconverted = nil
	}

	report.Total = report.Debits
	report.Difference = report.Debits.Sub(report.Credits).Abs()
	report.IsBalanced = len(report.Unconverted) == 0 && report.Difference.LessThanOrEqual(tolerance)
	return report
}

// UnbalancedError is returned when a transaction fails the balance check.
type UnbalancedError struct {
	Report domain.BalanceReport
}

func (e *UnbalancedError) Error() string {
	if len(e.Report.Unconverted) > 0 {
		return fmt.Sprintf("transaction cannot be balanced in %s: no exchange rate for entries %v",
			e.Report.ReferenceCurrency, e.Report.Unconverted)
	}
	return fmt.Sprintf("transaction does not balance: debits %s, credits %s, difference %s %s",
		e.Report.Debits, e.Report.Credits, e.Report.Difference, e.Report.ReferenceCurrency)
}

// Unwrap lets callers match the error against apperrors.ErrValidation.
func (e *UnbalancedError) Unwrap() error {
	return apperrors.ErrValidation
}

// RequireBalanced runs CheckBalance and returns an *UnbalancedError on failure.
func RequireBalanced(entries []domain.TransactionEntry, reference string, conv exchange.Converter, tolerance decimal.Decimal) (domain.BalanceReport, error) {
	report := CheckBalance(entries, reference, conv, tolerance)
	if !report.IsBalanced {
		return report, &UnbalancedError{Report: report}
	}
	return report, nil
}

// SortedCurrencies returns the currency keys of a per-currency map in order.
func SortedCurrencies[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
