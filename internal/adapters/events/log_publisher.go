package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	portsevents "github.com/SscSPs/multicurrency_ledger/internal/core/ports/events"
)

// LogPublisher records events in the application log. Used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ portsevents.Publisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.logger.InfoContext(ctx, "Ledger event",
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)),
		slog.String("company_id", event.CompanyID),
		slog.String("entity_id", event.EntityID),
		slog.String("actor_id", event.ActorID))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
