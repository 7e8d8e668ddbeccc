package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/config"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/logger"
)

// EmailNotifier delivers messages over SMTP. Usernames double as the
// recipient address.
type EmailNotifier struct {
	cfg config.SMTPSettings
	log *zap.Logger
}

// NewEmailNotifier constructs an SMTP-backed notifier.
func NewEmailNotifier(cfg config.SMTPSettings, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, log: log}
}

// Dispatch sends a plain-text message to the recipient. An incomplete SMTP
// configuration downgrades to a logged no-op so registration never blocks on
// mail infrastructure.
func (n *EmailNotifier) Dispatch(ctx context.Context, recipient, subject, body string) error {
	if n.cfg.Host == "" || n.cfg.From == "" {
		n.log.Warn("smtp config missing, skipping notification",
			zap.String("recipient", logger.MaskEmail(recipient)),
			zap.String("subject", subject),
		)
		return nil
	}
	if strings.TrimSpace(recipient) == "" {
		n.log.Warn("notification recipient empty, skipping")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.log.Info("notification sent",
		zap.String("recipient", logger.MaskEmail(recipient)),
		zap.String("subject", subject),
	)
	return nil
}

var _ port.Notifier = (*EmailNotifier)(nil)

// LogNotifier writes notifications to the log instead of delivering them.
// Used in development environments without an SMTP relay.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier constructs a log-only notifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Dispatch logs the would-be message.
func (n *LogNotifier) Dispatch(_ context.Context, recipient, subject, body string) error {
	n.log.Info("notification (log only)",
		zap.String("recipient", logger.MaskEmail(recipient)),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

var _ port.Notifier = (*LogNotifier)(nil)
