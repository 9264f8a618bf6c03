package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"notifyhub/internal/microservices/http-api/models"
)

const pushSendTimeout = 10 * time.Second

// PushProvider hands notifications to Firebase Cloud Messaging. Success means
// FCM accepted the request; device delivery is FCM's problem.
type PushProvider struct {
	client *messaging.Client
	logger *slog.Logger
}

func NewPushProvider(ctx context.Context, credentialsFile string, logger *slog.Logger) (*PushProvider, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}
	fcmClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm client: %w", err)
	}
	logger.Info("Firebase connected")
	return &PushProvider{client: fcmClient, logger: logger}, nil
}

func (p *PushProvider) Send(ctx context.Context, n *models.Notification, user *models.User) error {
	if user.FCMToken == "" {
		return fmt.Errorf("%w: user %s has no FCM token", ErrNoRecipient, user.ID)
	}

	data := make(map[string]string, len(n.Payload)+2)
	for k, v := range n.Payload {
		data[k] = fmt.Sprint(v)
	}
	data["notification_id"] = n.ID
	data["category"] = string(n.Category)

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
	}

	ctx, cancel := context.WithTimeout(ctx, pushSendTimeout)
	defer cancel()

	response, err := p.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	p.logger.Debug("push accepted", "notification_id", n.ID, "response", response)
	return nil
}
