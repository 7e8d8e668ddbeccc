package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/logger"
)

const confirmationSubject = "Complete your registration"

// ConfirmationNotification captures the data needed to deliver a confirmation
// link. Recipient is the registered username, which is the contact email.
type ConfirmationNotification struct {
	Recipient string
	Token     string
}

// NotificationDispatcher fans registration events out to downstream notifiers.
type NotificationDispatcher interface {
	SendConfirmation(ctx context.Context, payload ConfirmationNotification) error
}

type noopDispatcher struct{}

func (noopDispatcher) SendConfirmation(context.Context, ConfirmationNotification) error {
	return nil
}

// ConfirmationDispatcher composes and delivers the confirmation email through
// the configured notifier.
type ConfirmationDispatcher struct {
	notifier        port.Notifier
	confirmationURL string
	log             *zap.Logger
}

// NewConfirmationDispatcher constructs a dispatcher. confirmationURL is the
// link prefix the raw token is appended to.
func NewConfirmationDispatcher(notifier port.Notifier, confirmationURL string, log *zap.Logger) NotificationDispatcher {
	if notifier == nil {
		return noopDispatcher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfirmationDispatcher{
		notifier:        notifier,
		confirmationURL: confirmationURL,
		log:             log,
	}
}

func (d *ConfirmationDispatcher) SendConfirmation(ctx context.Context, payload ConfirmationNotification) error {
	body := "To confirm your account, please click here: " + d.confirmationURL + payload.Token

	if err := d.notifier.Dispatch(ctx, payload.Recipient, confirmationSubject, body); err != nil {
		d.log.Warn("confirmation email dispatch failed",
			zap.String("recipient", logger.MaskEmail(payload.Recipient)),
			zap.Error(err),
		)
		return err
	}

	d.log.Info("confirmation email dispatched",
		zap.String("recipient", logger.MaskEmail(payload.Recipient)),
	)
	return nil
}
