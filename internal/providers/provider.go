package providers

import (
	"context"
	"errors"

	"notifyhub/internal/microservices/http-api/models"
)

// Provider is the uniform send contract, one implementation per channel.
// A nil error means the transport accepted the message, not that the end
// device received it. Implementations never panic; everything comes back
// as an error for the dispatcher to log and count against the retry budget.
type Provider interface {
	Send(ctx context.Context, n *models.Notification, user *models.User) error
}

var (
	ErrNoRecipient = errors.New("user has no address for this channel")
)
