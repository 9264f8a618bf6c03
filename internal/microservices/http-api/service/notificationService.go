package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"notifyhub/internal/cache"
	"notifyhub/internal/microservices/http-api/models"
	"notifyhub/internal/microservices/http-api/repository"
	"notifyhub/internal/providers"
)

// SendInput is everything a caller supplies for one notification
type SendInput struct {
	UserID       string
	Category     models.NotificationCategory
	Channel      models.NotificationChannel
	Title        string
	Body         string
	Payload      map[string]any
	Priority     models.NotificationPriority
	ScheduledFor *time.Time
	RelatedType  string
	RelatedID    string
	TemplateID   *uint
}

// TemplateSendInput drives a template-rendered send
type TemplateSendInput struct {
	UserID       string
	TemplateName string
	Channel      models.NotificationChannel
	Context      map[string]any
	Payload      map[string]any
	Priority     models.NotificationPriority
	ScheduledFor *time.Time
	RelatedType  string
	RelatedID    string
}

// BulkResult aggregates a bulk send; there is no partial rollback
type BulkResult struct {
	SuccessCount int `json:"success_count"`
	FailedCount  int `json:"failed_count"`
}

type NotificationService interface {
	Send(ctx context.Context, in SendInput) bool
	SendBulk(ctx context.Context, userIDs []string, in SendInput) BulkResult
	SendFromTemplate(ctx context.Context, in TemplateSendInput) bool
	Dispatch(ctx context.Context, n *models.Notification) bool
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	DeliveryLogs(ctx context.Context, notificationID string) ([]models.NotificationLog, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	queue         repository.NotificationQueueRepository
	logs          repository.NotificationLogRepository
	preferences   repository.NotificationPreferenceRepository
	templates     repository.NotificationTemplateRepository
	users         repository.UserRepository
	providers     map[models.NotificationChannel]providers.Provider
	unreadCache   *cache.UnreadCache
	claimTimeout  time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	queue repository.NotificationQueueRepository,
	logs repository.NotificationLogRepository,
	preferences repository.NotificationPreferenceRepository,
	templates repository.NotificationTemplateRepository,
	users repository.UserRepository,
	providerMap map[models.NotificationChannel]providers.Provider,
	unreadCache *cache.UnreadCache,
	claimTimeout time.Duration,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		queue:         queue,
		logs:          logs,
		preferences:   preferences,
		templates:     templates,
		users:         users,
		providers:     providerMap,
		unreadCache:   unreadCache,
		claimTimeout:  claimTimeout,
		logger:        logger,
		now:           time.Now,
	}
}

// Send gates on the user's preferences, persists the notification, enqueues
// it, and dispatches immediately unless a future delivery was requested.
// Callers only ever see a boolean; diagnostics live in the delivery log.
func (s *notificationService) Send(ctx context.Context, in SendInput) bool {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		s.logger.Error("send aborted, user lookup failed", "user_id", in.UserID, "error", err)
		return false
	}
	if user == nil {
		s.logger.Warn("send aborted, unknown user", "user_id", in.UserID)
		return false
	}

	// preference gate
	pref, err := s.preferences.GetOrCreate(ctx, in.UserID)
	if err != nil {
		s.logger.Error("send aborted, preference lookup failed", "user_id", in.UserID, "error", err)
		return false
	}
	if !pref.ChannelEnabled(in.Channel) {
		s.logger.Debug("send suppressed, channel disabled", "user_id", in.UserID, "channel", in.Channel)
		return false
	}
	if !pref.CategoryEnabled(in.Channel, in.Category) {
		s.logger.Debug("send suppressed, category disabled",
			"user_id", in.UserID, "channel", in.Channel, "category", in.Category)
		return false
	}
	if pref.InQuietHours(s.now()) {
		s.logger.Debug("send suppressed, quiet hours", "user_id", in.UserID)
		return false
	}

	notification := &models.Notification{
		ID:           uuid.New().String(),
		UserID:       in.UserID,
		TemplateID:   in.TemplateID,
		Category:     in.Category,
		Channel:      in.Channel,
		Title:        in.Title,
		Body:         in.Body,
		Payload:      in.Payload,
		Status:       models.StatusPending,
		Priority:     in.Priority,
		ScheduledFor: in.ScheduledFor,
		MaxRetries:   models.DefaultMaxRetries,
		RelatedType:  in.RelatedType,
		RelatedID:    in.RelatedID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Error("send aborted, persist failed", "user_id", in.UserID, "error", err)
		return false
	}

	scheduledFor := s.now()
	if in.ScheduledFor != nil {
		scheduledFor = *in.ScheduledFor
	}
	entry := &models.NotificationQueueEntry{
		NotificationID: notification.ID,
		Priority:       models.QueueScore(in.Priority, in.Channel),
		ScheduledFor:   scheduledFor,
	}
	if err := s.queue.Create(ctx, entry); err != nil {
		// don't leave a notification nothing will ever dispatch
		s.logger.Error("send aborted, enqueue failed", "notification_id", notification.ID, "error", err)
		if delErr := s.notifications.Delete(ctx, notification.ID); delErr != nil {
			s.logger.Error("rollback of orphaned notification failed", "notification_id", notification.ID, "error", delErr)
		}
		return false
	}

	if in.ScheduledFor == nil {
		// the immediate path goes through the same claim as the queue
		// processor, so an overlapping sweep can never double-dispatch
		claimed, err := s.queue.Claim(ctx, entry.ID, s.now(), s.claimTimeout)
		if err != nil {
			s.logger.Error("immediate claim failed", "notification_id", notification.ID, "error", err)
			return true // enqueued; the processor will pick it up
		}
		if claimed {
			s.Dispatch(ctx, notification)
		}
	}
	return true
}

// SendBulk iterates Send per user; one user's failure never aborts the batch
func (s *notificationService) SendBulk(ctx context.Context, userIDs []string, in SendInput) BulkResult {
	var result BulkResult
	for _, userID := range userIDs {
		in.UserID = userID
		if s.Send(ctx, in) {
			result.SuccessCount++
		} else {
			result.FailedCount++
		}
	}
	return result
}

// SendFromTemplate renders the active (name, channel) template against the
// caller's context and sends the result. Unresolved placeholders stay literal.
func (s *notificationService) SendFromTemplate(ctx context.Context, in TemplateSendInput) bool {
	template, err := s.templates.GetActiveByNameAndChannel(ctx, in.TemplateName, in.Channel)
	if err != nil {
		s.logger.Error("template lookup failed", "template", in.TemplateName, "channel", in.Channel, "error", err)
		return false
	}
	if template == nil {
		s.logger.Warn("no active template", "template", in.TemplateName, "channel", in.Channel)
		return false
	}

	title := template.Title
	if title == "" {
		title = template.Subject
	}

	return s.Send(ctx, SendInput{
		UserID:       in.UserID,
		Category:     template.Category,
		Channel:      in.Channel,
		Title:        RenderTemplate(title, in.Context),
		Body:         RenderTemplate(template.Body, in.Context),
		Payload:      in.Payload,
		Priority:     in.Priority,
		ScheduledFor: in.ScheduledFor,
		RelatedType:  in.RelatedType,
		RelatedID:    in.RelatedID,
		TemplateID:   &template.ID,
	})
}

// RetryBackoff returns the delay before the next attempt: 60s doubling per
// prior attempt, capped at 5 minutes.
func RetryBackoff(retryCount int) time.Duration {
	delay := 60 * time.Second << retryCount
	if delay > 300*time.Second {
		delay = 300 * time.Second
	}
	return delay
}

// Dispatch runs one send attempt for a claimed notification. Both the
// immediate path and the queue processor funnel through here; the caller must
// hold the queue claim so attempts for one notification never overlap.
func (s *notificationService) Dispatch(ctx context.Context, n *models.Notification) bool {
	attempt := n.RetryCount + 1

	provider, ok := s.providers[n.Channel]
	if !ok {
		return s.handleFailure(ctx, n, attempt, 0, "no provider configured for channel "+string(n.Channel))
	}

	user, err := s.users.FindByID(ctx, n.UserID)
	if err != nil || user == nil {
		return s.handleFailure(ctx, n, attempt, 0, "recipient lookup failed")
	}

	start := time.Now()
	sendErr := provider.Send(ctx, n, user)
	durationMs := time.Since(start).Milliseconds()

	if sendErr != nil {
		return s.handleFailure(ctx, n, attempt, durationMs, sendErr.Error())
	}

	if err := s.logs.Create(ctx, &models.NotificationLog{
		NotificationID:   n.ID,
		Attempt:          attempt,
		Status:           models.StatusSent,
		ProviderResponse: "accepted",
		DurationMs:       durationMs,
	}); err != nil {
		s.logger.Error("delivery log write failed", "notification_id", n.ID, "error", err)
	}

	now := s.now()
	if err := s.notifications.MarkSent(ctx, n.ID, now); err != nil {
		s.logger.Error("mark sent failed", "notification_id", n.ID, "error", err)
	}
	n.Status = models.StatusSent
	n.SentAt = &now

	if n.Channel == models.ChannelWebSocket {
		// the fan-out layer accepted the event; treat that as delivery
		if err := s.notifications.MarkDelivered(ctx, n.ID, now); err != nil {
			s.logger.Error("mark delivered failed", "notification_id", n.ID, "error", err)
		} else {
			n.Status = models.StatusDelivered
			n.DeliveredAt = &now
		}
	}

	if err := s.queue.DeleteByNotification(ctx, n.ID); err != nil {
		s.logger.Error("queue entry cleanup failed", "notification_id", n.ID, "error", err)
	}
	s.unreadCache.Invalidate(ctx, n.UserID)

	s.logger.Info("notification sent",
		"notification_id", n.ID, "channel", n.Channel, "attempt", attempt, "duration_ms", durationMs)
	return true
}

// handleFailure logs the failed attempt and either reschedules with backoff
// or, when the retry budget is spent, moves the notification to failed.
func (s *notificationService) handleFailure(ctx context.Context, n *models.Notification, attempt int, durationMs int64, reason string) bool {
	if err := s.logs.Create(ctx, &models.NotificationLog{
		NotificationID: n.ID,
		Attempt:        attempt,
		Status:         models.StatusFailed,
		ErrorMessage:   reason,
		DurationMs:     durationMs,
	}); err != nil {
		s.logger.Error("delivery log write failed", "notification_id", n.ID, "error", err)
	}

	if n.RetryCount < n.MaxRetries {
		delay := RetryBackoff(n.RetryCount)
		n.RetryCount++
		if err := s.notifications.SetRetryCount(ctx, n.ID, n.RetryCount); err != nil {
			s.logger.Error("retry count update failed", "notification_id", n.ID, "error", err)
		}
		if err := s.queue.RescheduleByNotification(ctx, n.ID, s.now().Add(delay)); err != nil {
			s.logger.Error("reschedule failed", "notification_id", n.ID, "error", err)
		}
		s.logger.Warn("send attempt failed, rescheduled",
			"notification_id", n.ID, "attempt", attempt, "retry_in", delay, "reason", reason)
	} else {
		if err := s.notifications.MarkFailed(ctx, n.ID, reason); err != nil {
			s.logger.Error("mark failed failed", "notification_id", n.ID, "error", err)
		}
		n.Status = models.StatusFailed
		n.FailureReason = reason
		if err := s.queue.DeleteByNotification(ctx, n.ID); err != nil {
			s.logger.Error("queue entry cleanup failed", "notification_id", n.ID, "error", err)
		}
		s.logger.Error("retries exhausted, notification failed",
			"notification_id", n.ID, "attempt", attempt, "reason", reason)
	}
	return false
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead transitions a notification the user owns to read. Marking a
// pending or failed notification is a no-op and returns false.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	updated, err := s.notifications.MarkRead(ctx, notificationID, userID, s.now())
	if err != nil {
		return false, err
	}
	if updated {
		s.unreadCache.Invalidate(ctx, userID)
	}
	return updated, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.notifications.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.unreadCache.Invalidate(ctx, userID)
	}
	return count, nil
}

// DeliveryLogs returns the per-attempt delivery trail of a notification,
// oldest attempt first. Unknown notification IDs yield an empty slice.
func (s *notificationService) DeliveryLogs(ctx context.Context, notificationID string) ([]models.NotificationLog, error) {
	return s.logs.ListByNotification(ctx, notificationID)
}

// UnreadCount counts sent/delivered notifications, read through the cache
func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if count, ok := s.unreadCache.Get(ctx, userID); ok {
		return count, nil
	}
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.unreadCache.Set(ctx, userID, count)
	return count, nil
}
