package port

import (
	"context"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserConfirmed(ctx context.Context, event domain.UserConfirmedEvent) error
	PublishUserDeleted(ctx context.Context, event domain.UserDeletedEvent) error
	PublishProjectDeleted(ctx context.Context, event domain.ProjectDeletedEvent) error
	PublishTaskDeleted(ctx context.Context, event domain.TaskDeletedEvent) error
}
