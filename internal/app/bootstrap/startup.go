// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	orphanstore "github.com/dalemusser/agencycms/internal/app/store/orphans"
	"github.com/dalemusser/agencycms/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It reports how many orphaned files are still waiting for cleanup and
// starts the background maintenance jobs. Returning a non-nil error aborts
// startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	orphans := orphanstore.New(deps.MongoDatabase)

	n, err := orphans.CountOutstanding(ctx)
	if err != nil {
		logger.Error("failed to count orphaned files", zap.Error(err))
		return err
	}
	if n > 0 {
		logger.Warn("orphaned files awaiting cleanup", zap.Int64("count", n))
	}

	startTaskRunner(orphans, deps.FileStorage, appCfg, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(orphans *orphanstore.Store, files tasks.FileDeleter, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// A zero interval disables retries; reports are still recorded and pruned.
	taskRunner.Register(tasks.OrphanRetryJob(orphans, files, logger, appCfg.OrphanRetryInterval, appCfg.OrphanRetryMaxAttempts))
	taskRunner.Register(tasks.OrphanPruneJob(orphans, logger))

	taskRunner.Start()
}
