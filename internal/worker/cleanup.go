package worker

import (
	"context"
	"log/slog"
	"time"

	"notifyhub/internal/microservices/http-api/repository"
)

// Cleaner deletes delivered/read/failed notifications past the retention
// horizon; logs and queue leftovers cascade with them. Pending and sent rows
// are never auto-deleted, whatever their age.
type Cleaner struct {
	notifications repository.NotificationRepository
	horizon       time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewCleaner(notifications repository.NotificationRepository, horizon time.Duration, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		notifications: notifications,
		horizon:       horizon,
		logger:        logger,
		now:           time.Now,
	}
}

// Sweep runs one retention pass and returns how many rows were removed
func (c *Cleaner) Sweep(ctx context.Context) int64 {
	cutoff := c.now().Add(-c.horizon)
	deleted, err := c.notifications.DeleteTerminalOlderThan(ctx, cutoff)
	if err != nil {
		c.logger.Error("retention sweep failed", "error", err)
		return 0
	}
	if deleted > 0 {
		c.logger.Info("retention sweep", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted
}

// Run sweeps on a fixed interval until the context ends
func (c *Cleaner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("cleaner shutting down")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}
