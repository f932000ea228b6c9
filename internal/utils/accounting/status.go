package accounting

import (
	"fmt"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

var transitions = map[domain.TransactionStatus][]domain.TransactionStatus{
	domain.StatusDraft:   {domain.StatusPending, domain.StatusApproved, domain.StatusRejected},
	domain.StatusPending: {domain.StatusApproved, domain.StatusRejected},
}

// CanTransition reports whether a transaction may move from one status to another.
func CanTransition(from, to domain.TransactionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a validation error when the move is not allowed.
func ValidateTransition(from, to domain.TransactionStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: transaction cannot move from %s to %s", apperrors.ErrValidation, from, to)
	}
	return nil
}
