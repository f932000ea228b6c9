package domain

import "time"

// EventType names a ledger event.
type EventType string

const (
	EventTransactionCreated   EventType = "transaction.created"
	EventTransactionUpdated   EventType = "transaction.updated"
	EventTransactionSubmitted EventType = "transaction.submitted"
	EventTransactionApproved  EventType = "transaction.approved"
	EventTransactionRejected  EventType = "transaction.rejected"
	EventRatesUpdated         EventType = "rates.updated"
)

// Event is a notification published after a state change is committed.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	CompanyID  string    `json:"companyID,omitempty"`
	EntityID   string    `json:"entityID,omitempty"`
	ActorID    string    `json:"actorID,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}
