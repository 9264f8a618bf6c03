package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"notifyhub/internal/microservices/http-api/models"
	"notifyhub/internal/microservices/http-api/repository"
)

// Dispatcher is the slice of the notification service the processor drives
type Dispatcher interface {
	Dispatch(ctx context.Context, n *models.Notification) bool
}

// Processor sweeps the queue on a schedule: pull due entries most-urgent
// first, claim each one atomically, dispatch, and let the dispatch path
// retire or reschedule the entry. A claim left behind by a crashed worker
// becomes claimable again after the claim timeout.
type Processor struct {
	queue         repository.NotificationQueueRepository
	notifications repository.NotificationRepository
	dispatcher    Dispatcher
	limiter       *rate.Limiter
	claimTimeout  time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewProcessor(
	queue repository.NotificationQueueRepository,
	notifications repository.NotificationRepository,
	dispatcher Dispatcher,
	ratePerSecond int,
	claimTimeout time.Duration,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		queue:         queue,
		notifications: notifications,
		dispatcher:    dispatcher,
		limiter:       rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		claimTimeout:  claimTimeout,
		logger:        logger,
		now:           time.Now,
	}
}

// ProcessPending runs one batch and returns how many entries were dispatched
func (p *Processor) ProcessPending(ctx context.Context, batchSize int) int {
	entries, err := p.queue.DueBatch(ctx, p.now(), batchSize, p.claimTimeout)
	if err != nil {
		p.logger.Error("queue fetch failed", "error", err)
		return 0
	}

	processed := 0
	for i := range entries {
		entry := &entries[i]

		if err := p.limiter.Wait(ctx); err != nil {
			p.logger.Warn("processor interrupted", "error", err)
			return processed
		}

		claimed, err := p.queue.Claim(ctx, entry.ID, p.now(), p.claimTimeout)
		if err != nil {
			p.logger.Error("claim failed", "entry_id", entry.ID, "error", err)
			continue
		}
		if !claimed {
			// someone else got it between fetch and claim
			continue
		}

		notification, err := p.notifications.GetByID(ctx, entry.NotificationID)
		if err != nil {
			p.logger.Error("notification fetch failed", "notification_id", entry.NotificationID, "error", err)
			continue
		}
		if notification == nil || notification.Status != models.StatusPending {
			// entry outlived its notification; drop it
			if err := p.queue.DeleteByNotification(ctx, entry.NotificationID); err != nil {
				p.logger.Error("orphan entry cleanup failed", "notification_id", entry.NotificationID, "error", err)
			}
			continue
		}

		p.dispatcher.Dispatch(ctx, notification)
		processed++
	}

	if processed > 0 {
		p.logger.Info("queue batch processed", "count", processed)
	}
	return processed
}

// Run invokes ProcessPending on a fixed interval until the context ends
func (p *Processor) Run(ctx context.Context, interval time.Duration, batchSize int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("queue processor shutting down")
			return
		case <-ticker.C:
			p.ProcessPending(ctx, batchSize)
		}
	}
}
