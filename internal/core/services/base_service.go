package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/ports/events"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher events.Publisher
	Now       func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// CurrentTime returns the service clock reading in UTC.
func (s *BaseService) CurrentTime() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RequirePrivileged fails with apperrors.ErrForbidden unless the actor is an approver or admin.
func (s *BaseService) RequirePrivileged(ctx context.Context, actor domain.Actor, action string) error {
	if actor.IsPrivileged() {
		return nil
	}
	err := fmt.Errorf("%w: %s requires the APPROVER or ADMIN role", apperrors.ErrForbidden, action)
	s.LogError(ctx, err, "Caller lacks role for action",
		slog.String("user_id", actor.UserID),
		slog.String("action", action))
	return err
}

// Publish emits an event after the state change it describes has been stored.
// Delivery failures are logged and never undo the change.
func (s *BaseService) Publish(ctx context.Context, eventType domain.EventType, companyID, entityID, actorID string, payload any) {
	if s.Publisher == nil {
		return
	}
	event := domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		CompanyID:  companyID,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: s.CurrentTime(),
		Payload:    payload,
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish event",
			slog.String("event_type", string(eventType)),
			slog.String("entity_id", entityID))
	}
}
