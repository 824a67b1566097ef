// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	notificationstore "github.com/dalemusser/remindhub/internal/app/store/notifications"
	"go.uber.org/zap"
)

// NotificationPruneJob creates a job that deletes notifications older than
// maxAge. Historical notifications are retained by default; this job is only
// scheduled when an operator opts into a prune age.
func NotificationPruneJob(notes *notificationstore.Store, logger *zap.Logger, maxAge time.Duration) Job {
	return Job{
		Name:     "notification-prune",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := notes.PruneOlderThan(ctx, maxAge)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("pruned old notifications",
					zap.Int("count", count),
					zap.Duration("max_age", maxAge))
			}
			return nil
		},
	}
}
