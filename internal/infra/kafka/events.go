package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	SubjectID string           `json:"subject_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, subjectID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		SubjectID: subjectID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes ticketing.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Username     string    `json:"username"`
		Role         string    `json:"role"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Username:     event.Username,
		Role:         event.Role,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "ticketing.user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishUserConfirmed publishes ticketing.user.confirmed events.
func (p *EventPublisher) PublishUserConfirmed(ctx context.Context, event domain.UserConfirmedEvent) error {
	payload := struct {
		UserID      string    `json:"user_id"`
		Username    string    `json:"username"`
		ConfirmedAt time.Time `json:"confirmed_at"`
	}{
		UserID:      event.UserID,
		Username:    event.Username,
		ConfirmedAt: event.ConfirmedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "ticketing.user.confirmed", event.UserID, event.ConfirmedAt, payload)
}

// PublishUserDeleted publishes ticketing.user.deleted events.
func (p *EventPublisher) PublishUserDeleted(ctx context.Context, event domain.UserDeletedEvent) error {
	payload := struct {
		UserID          string    `json:"user_id"`
		MangledUsername string    `json:"mangled_username"`
		DeletedAt       time.Time `json:"deleted_at"`
	}{
		UserID:          event.UserID,
		MangledUsername: event.MangledUsername,
		DeletedAt:       event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "ticketing.user.deleted", event.UserID, event.DeletedAt, payload)
}

// PublishProjectDeleted publishes ticketing.project.deleted events.
func (p *EventPublisher) PublishProjectDeleted(ctx context.Context, event domain.ProjectDeletedEvent) error {
	payload := struct {
		ProjectID    string    `json:"project_id"`
		MangledCode  string    `json:"mangled_code"`
		TasksDeleted int       `json:"tasks_deleted"`
		TasksFailed  int       `json:"tasks_failed"`
		DeletedAt    time.Time `json:"deleted_at"`
	}{
		ProjectID:    event.ProjectID,
		MangledCode:  event.MangledCode,
		TasksDeleted: event.TasksDeleted,
		TasksFailed:  event.TasksFailed,
		DeletedAt:    event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "ticketing.project.deleted", event.ProjectID, event.DeletedAt, payload)
}

// PublishTaskDeleted publishes ticketing.task.deleted events.
func (p *EventPublisher) PublishTaskDeleted(ctx context.Context, event domain.TaskDeletedEvent) error {
	payload := struct {
		TaskID    string    `json:"task_id"`
		ProjectID string    `json:"project_id"`
		DeletedAt time.Time `json:"deleted_at"`
	}{
		TaskID:    event.TaskID,
		ProjectID: event.ProjectID,
		DeletedAt: event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "ticketing.task.deleted", event.TaskID, event.DeletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
