package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"notifyhub/internal/microservices/http-api/models"
)

const (
	smsSendTimeout     = 15 * time.Second
	smsTransportTries  = 3
	smsInitialInterval = 500 * time.Millisecond
)

// SMSProvider posts to an external SMS gateway HTTP API. Transient transport
// errors are retried briefly inside the adapter; anything surviving that
// counts as one failed attempt against the notification's retry budget.
type SMSProvider struct {
	gatewayURL string
	apiKey     string
	sender     string
	client     *http.Client
	logger     *slog.Logger
}

func NewSMSProvider(gatewayURL, apiKey, sender string, logger *slog.Logger) *SMSProvider {
	return &SMSProvider{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		sender:     sender,
		client:     &http.Client{Timeout: smsSendTimeout},
		logger:     logger,
	}
}

// sendSMSRequest is the gateway wire payload
type sendSMSRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

func (p *SMSProvider) Send(ctx context.Context, n *models.Notification, user *models.User) error {
	if user.Phone == "" {
		return fmt.Errorf("%w: user %s has no phone number", ErrNoRecipient, user.ID)
	}

	body, err := json.Marshal(sendSMSRequest{
		To:      user.Phone,
		From:    p.sender,
		Message: n.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, smsSendTimeout)
	defer cancel()

	operation := func() error {
		return p.post(ctx, body)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = smsInitialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, smsTransportTries-1), ctx)

	if err := backoff.Retry(operation, b); err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	p.logger.Debug("sms accepted", "notification_id", n.ID, "to", user.Phone)
	return nil
}

func (p *SMSProvider) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// wrong payload or credentials, retrying will not help
		return backoff.Permanent(fmt.Errorf("gateway rejected request: %s", resp.Status))
	default:
		return fmt.Errorf("gateway error: %s", resp.Status)
	}
}
