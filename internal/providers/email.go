package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mail "gopkg.in/mail.v2"

	"notifyhub/internal/microservices/http-api/models"
)

// EmailProvider hands subject/body to an SMTP transport.
type EmailProvider struct {
	dialer *mail.Dialer
	from   string
	logger *slog.Logger
}

func NewEmailProvider(host string, port int, username, password, from string, logger *slog.Logger) *EmailProvider {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 10 * time.Second
	return &EmailProvider{dialer: dialer, from: from, logger: logger}
}

func (p *EmailProvider) Send(ctx context.Context, n *models.Notification, user *models.User) error {
	if user.Email == "" {
		return fmt.Errorf("%w: user %s has no email address", ErrNoRecipient, user.ID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetHeader("From", p.from)
	message.SetHeader("To", user.Email)
	message.SetHeader("Subject", n.Title)
	message.SetBody("text/plain", n.Body)

	if err := p.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	p.logger.Debug("email accepted", "notification_id", n.ID, "to", user.Email)
	return nil
}
