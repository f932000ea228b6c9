package events

import (
	"context"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
)

// Publisher delivers ledger events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
