// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	orphanstore "github.com/dalemusser/agencycms/internal/app/store/orphans"
	"github.com/dalemusser/agencycms/internal/app/system/uploads"
	"go.uber.org/zap"
)

// Defaults for the orphaned-file jobs.
const (
	DefaultOrphanRetryInterval = 15 * time.Minute
	DefaultOrphanMaxAttempts   = 5
	OrphanPruneInterval        = 6 * time.Hour
	OrphanRetention            = 30 * 24 * time.Hour
	orphanRetryBatch           = 500
)

// FileDeleter removes a file by storage path.
type FileDeleter interface {
	Delete(ctx context.Context, path string) error
}

// OrphanRetryJob creates a job that retries deletion of orphaned image files.
// A successful delete, or a file that is already gone, resolves the report.
// Reports that keep failing are abandoned after maxAttempts.
func OrphanRetryJob(store *orphanstore.Store, files FileDeleter, logger *zap.Logger, interval time.Duration, maxAttempts int) Job {
	if maxAttempts <= 0 {
		maxAttempts = DefaultOrphanMaxAttempts
	}
	return Job{
		Name:     "orphan-retry",
		Interval: interval,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			reports, err := store.ListOutstanding(ctx, orphanRetryBatch)
			if err != nil {
				return err
			}

			var resolved, abandoned int
			for _, rep := range reports {
				if err := ctx.Err(); err != nil {
					return err
				}
				delErr := files.Delete(ctx, rep.StoragePath)
				if delErr == nil || uploads.IsMissing(delErr) {
					if err := store.MarkResolved(ctx, rep.ID); err != nil {
						return err
					}
					resolved++
					continue
				}
				gaveUp, err := store.RecordFailedAttempt(ctx, rep.ID, delErr.Error(), maxAttempts)
				if err != nil {
					return err
				}
				if gaveUp {
					abandoned++
					logger.Warn("abandoned orphaned image file",
						zap.String("storage_path", rep.StoragePath),
						zap.String("kind", rep.Kind),
						zap.Error(delErr))
				}
			}

			if resolved > 0 || abandoned > 0 {
				logger.Info("retried orphaned image files",
					zap.Int("checked", len(reports)),
					zap.Int("resolved", resolved),
					zap.Int("abandoned", abandoned))
			}
			return nil
		},
	}
}

// OrphanPruneJob creates a job that removes closed orphan reports older
// than the retention window and logs how many remain open.
func OrphanPruneJob(store *orphanstore.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "orphan-prune",
		Interval: OrphanPruneInterval,
		Run: func(ctx context.Context) error {
			deleted, err := store.PruneClosed(ctx, time.Now().UTC().Add(-OrphanRetention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned closed orphan reports",
					zap.Int64("deleted", deleted))
			}

			open, err := store.CountOutstanding(ctx)
			if err != nil {
				return err
			}
			if open > 0 {
				logger.Warn("orphaned image files awaiting cleanup",
					zap.Int64("outstanding", open))
			}
			return nil
		},
	}
}
