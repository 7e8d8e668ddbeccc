package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, subjectID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("subject_id", subjectID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs ticketing.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"role":          event.Role,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("ticketing.user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserConfirmed logs ticketing.user.confirmed events.
func (p *StubPublisher) PublishUserConfirmed(_ context.Context, event domain.UserConfirmedEvent) error {
	payload := map[string]any{
		"user_id":      event.UserID,
		"username":     event.Username,
		"confirmed_at": event.ConfirmedAt,
	}
	p.logEvent("ticketing.user.confirmed", event.UserID, event.ConfirmedAt, payload)
	return nil
}

// PublishUserDeleted logs ticketing.user.deleted events.
func (p *StubPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	payload := map[string]any{
		"user_id":          event.UserID,
		"mangled_username": event.MangledUsername,
		"deleted_at":       event.DeletedAt,
	}
	p.logEvent("ticketing.user.deleted", event.UserID, event.DeletedAt, payload)
	return nil
}

// PublishProjectDeleted logs ticketing.project.deleted events.
func (p *StubPublisher) PublishProjectDeleted(_ context.Context, event domain.ProjectDeletedEvent) error {
	payload := map[string]any{
		"project_id":    event.ProjectID,
		"mangled_code":  event.MangledCode,
		"tasks_deleted": event.TasksDeleted,
		"tasks_failed":  event.TasksFailed,
		"deleted_at":    event.DeletedAt,
	}
	p.logEvent("ticketing.project.deleted", event.ProjectID, event.DeletedAt, payload)
	return nil
}

// PublishTaskDeleted logs ticketing.task.deleted events.
func (p *StubPublisher) PublishTaskDeleted(_ context.Context, event domain.TaskDeletedEvent) error {
	payload := map[string]any{
		"task_id":    event.TaskID,
		"project_id": event.ProjectID,
		"deleted_at": event.DeletedAt,
	}
	p.logEvent("ticketing.task.deleted", event.TaskID, event.DeletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
